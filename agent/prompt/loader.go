package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/response.txt
	responseRaw string

	//go:embed template/sentiment.txt
	sentimentRaw string

	//go:embed template/extraction.txt
	extractionRaw string
)

// Template is one FString user prompt; literal braces are doubled.
type Template struct {
	Name string
	Text string
}

// PromptSet holds the prompt for each model role.
type PromptSet struct {
	Response   Template
	Sentiment  Template
	Extraction Template
}

// LoadPromptSet returns the embedded prompts with surrounding whitespace trimmed.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Response:   Template{Name: "response", Text: strings.TrimSpace(responseRaw)},
		Sentiment:  Template{Name: "sentiment", Text: strings.TrimSpace(sentimentRaw)},
		Extraction: Template{Name: "extraction", Text: strings.TrimSpace(extractionRaw)},
	}
}

// BusinessConfig names the business the assistant speaks for.
type BusinessConfig struct {
	BusinessName string `split_words:"true" default:"Vanco AI"`
}

// Name falls back to the default business name when unset.
func (c BusinessConfig) Name() string {
	if v := strings.TrimSpace(c.BusinessName); v != "" {
		return v
	}
	return "Vanco AI"
}
