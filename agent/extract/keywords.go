package extract

import (
	"strings"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

type keywordGroup struct {
	label    string
	keywords []string
}

// Matching is plain lowercase substring search, so short keywords such as "ai" also match inside words.
var serviceKeywords = []keywordGroup{
	{"ai_ml", []string{"ai", "machine learning", "ml", "deep learning", "neural", "model", "llm", "gpt", "generative"}},
	{"computer_vision", []string{"vision", "image", "video", "detection", "recognition", "ocr", "camera"}},
	{"nlp", []string{"nlp", "chatbot", "conversational", "language", "text", "sentiment", "speech"}},
	{"data_analytics", []string{"analytics", "dashboard", "data", "pipeline", "bi", "reporting", "insights"}},
	{"cloud_devops", []string{"cloud", "aws", "azure", "gcp", "devops", "infrastructure", "deployment"}},
	{"full_stack", []string{"web", "mobile", "app", "api", "frontend", "backend", "development", "website"}},
	{"consulting", []string{"consulting", "strategy", "roadmap", "assessment", "audit"}},
	{"automation", []string{"automation", "workflow", "process", "rpa", "automate"}},
}

var industryKeywords = []keywordGroup{
	{"manufacturing", []string{"manufacturing", "factory", "production", "supply chain"}},
	{"retail", []string{"retail", "ecommerce", "store", "shopping"}},
	{"healthcare", []string{"healthcare", "medical", "hospital", "pharma"}},
	{"finance", []string{"finance", "banking", "fintech", "insurance"}},
	{"media", []string{"media", "entertainment", "content", "streaming"}},
	{"logistics", []string{"logistics", "shipping", "delivery", "transport"}},
	{"education", []string{"education", "university", "learning", "training"}},
}

var urgencyKeywords = []string{"urgent", "asap", "immediately", "deadline", "quick", "fast"}

var issueKeywords = []string{"problem", "issue", "bug", "broken", "not working", "complaint", "disappointed", "delayed", "failed"}

const (
	TagHighPriority       = "high_priority"
	IndustryTagPrefix     = "industry:"
	IssueCategoryReported = "customer_reported"
	IssueSeverityDefault  = "medium"
	issueDescriptionLimit = 100
)

// KeywordUpdates runs the deterministic keyword rules over a message.
func KeywordUpdates(message string) profile.Updates {
	lower := strings.ToLower(message)
	var u profile.Updates

	for _, g := range serviceKeywords {
		if containsAny(lower, g.keywords) {
			u.Preferences = append(u.Preferences, g.label)
		}
	}
	for _, g := range industryKeywords {
		if containsAny(lower, g.keywords) {
			u.Tags = append(u.Tags, IndustryTagPrefix+g.label)
		}
	}
	if containsAny(lower, urgencyKeywords) {
		u.Tags = append(u.Tags, TagHighPriority)
	}
	if containsAny(lower, issueKeywords) {
		u.Issues = append(u.Issues, profile.Issue{
			Description: truncateRunes(message, issueDescriptionLimit),
			Category:    IssueCategoryReported,
			Severity:    IssueSeverityDefault,
		})
	}
	return u
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
