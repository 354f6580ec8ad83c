package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSetPlaceholders(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	cases := map[string][]string{
		set.Response.Text:   {"{business_name}", "{service_catalog}", "{customer_name}", "{context}", "{user_message}"},
		set.Sentiment.Text:  {"{message}"},
		set.Extraction.Text: {"{message}", "{{", "}}", `"services_interested"`},
	}
	for text, wants := range cases {
		if text == "" {
			t.Fatal("embedded prompt is empty")
		}
		for _, want := range wants {
			if !strings.Contains(text, want) {
				t.Fatalf("prompt missing %q:\n%s", want, text)
			}
		}
	}
}

func TestBusinessConfigName(t *testing.T) {
	t.Parallel()

	if got := (BusinessConfig{}).Name(); got != "Vanco AI" {
		t.Fatalf("Name() = %q, want Vanco AI", got)
	}
	if got := (BusinessConfig{BusinessName: " Acme AI "}).Name(); got != "Acme AI" {
		t.Fatalf("Name() = %q, want Acme AI", got)
	}
}
