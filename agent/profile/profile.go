package profile

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidValue    = errors.New("invalid value")
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment normalizes a label and maps anything unrecognized to neutral.
func ParseSentiment(raw string) Sentiment {
	switch s := Sentiment(strings.ToLower(strings.TrimSpace(raw))); s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return s
	default:
		return SentimentNeutral
	}
}

const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
	StatusProposed   = "proposed"
	StatusScheduled  = "scheduled"
)

// Engagement is a delivered or running project counted in project value.
type Engagement struct {
	ProjectName string         `json:"project_name" yaml:"project_name"`
	Value       float64        `json:"value" yaml:"value"`
	Category    string         `json:"service_category" yaml:"service_category"`
	Status      string         `json:"status" yaml:"status"`
	Date        time.Time      `json:"date" yaml:"date"`
	Details     map[string]any `json:"details" yaml:"details"`
}

type ProposedEngagement struct {
	ProjectName    string         `json:"project_name" yaml:"project_name"`
	ProjectType    string         `json:"project_type" yaml:"project_type"`
	Description    string         `json:"description" yaml:"description"`
	EstimatedValue *float64       `json:"estimated_value" yaml:"estimated_value"`
	Status         string         `json:"status" yaml:"status"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	Details        map[string]any `json:"details" yaml:"details"`
}

type Meeting struct {
	Date      string         `json:"date" yaml:"date"`
	Time      string         `json:"time" yaml:"time"`
	Purpose   string         `json:"purpose" yaml:"purpose"`
	Status    string         `json:"status" yaml:"status"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	Details   map[string]any `json:"details" yaml:"details"`
}

type Issue struct {
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	Severity    string    `json:"severity" yaml:"severity"`
	Resolution  string    `json:"resolution" yaml:"resolution"`
	Date        time.Time `json:"date" yaml:"date"`
	Resolved    bool      `json:"resolved" yaml:"resolved"`
}

type Profile struct {
	ID          string `json:"customer_id" yaml:"customer_id"`
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email" yaml:"email"`
	Phone       string `json:"phone" yaml:"phone"`
	Company     string `json:"company" yaml:"company"`
	CompanyType string `json:"company_type" yaml:"company_type"`
	Industry    string `json:"industry" yaml:"industry"`

	Preferences       []string             `json:"preferences" yaml:"preferences"`
	ProjectHistory    []Engagement         `json:"project_history" yaml:"project_history"`
	ProposedProjects  []ProposedEngagement `json:"proposed_projects" yaml:"proposed_projects"`
	ScheduledMeetings []Meeting            `json:"scheduled_meetings" yaml:"scheduled_meetings"`
	IssuesReported    []Issue              `json:"issues_reported" yaml:"issues_reported"`

	SentimentTrend         Sentiment `json:"sentiment_trend" yaml:"sentiment_trend"`
	LastInteractionSummary string    `json:"last_interaction_summary" yaml:"last_interaction_summary"`
	InteractionCount       int       `json:"interaction_count" yaml:"interaction_count"`
	ProjectValue           float64   `json:"project_value" yaml:"project_value"`
	EstimatedBudget        string    `json:"estimated_budget" yaml:"estimated_budget"`

	Tags             []string `json:"tags" yaml:"tags"`
	ServiceInterests []string `json:"service_interests" yaml:"service_interests"`
	KeyRequirements  []string `json:"key_requirements" yaml:"key_requirements"`
	DecisionTimeline string   `json:"decision_timeline" yaml:"decision_timeline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Contact holds the optional fields accepted when a profile is created.
type Contact struct {
	Email    string
	Company  string
	Industry string
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.Preferences = cloneStrings(p.Preferences)
	out.Tags = cloneStrings(p.Tags)
	out.ServiceInterests = cloneStrings(p.ServiceInterests)
	out.KeyRequirements = cloneStrings(p.KeyRequirements)

	out.ProjectHistory = make([]Engagement, len(p.ProjectHistory))
	for i, e := range p.ProjectHistory {
		e.Details = cloneDetails(e.Details)
		out.ProjectHistory[i] = e
	}
	out.ProposedProjects = make([]ProposedEngagement, len(p.ProposedProjects))
	for i, e := range p.ProposedProjects {
		if e.EstimatedValue != nil {
			v := *e.EstimatedValue
			e.EstimatedValue = &v
		}
		e.Details = cloneDetails(e.Details)
		out.ProposedProjects[i] = e
	}
	out.ScheduledMeetings = make([]Meeting, len(p.ScheduledMeetings))
	for i, m := range p.ScheduledMeetings {
		m.Details = cloneDetails(m.Details)
		out.ScheduledMeetings[i] = m
	}
	out.IssuesReported = append(make([]Issue, 0, len(p.IssuesReported)), p.IssuesReported...)
	return &out
}

// normalize replaces nil collections with empty ones and coerces the sentiment label.
func (p *Profile) normalize() {
	if p.Preferences == nil {
		p.Preferences = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.ServiceInterests == nil {
		p.ServiceInterests = []string{}
	}
	if p.KeyRequirements == nil {
		p.KeyRequirements = []string{}
	}
	if p.ProjectHistory == nil {
		p.ProjectHistory = []Engagement{}
	}
	if p.ProposedProjects == nil {
		p.ProposedProjects = []ProposedEngagement{}
	}
	if p.ScheduledMeetings == nil {
		p.ScheduledMeetings = []Meeting{}
	}
	if p.IssuesReported == nil {
		p.IssuesReported = []Issue{}
	}
	p.SentimentTrend = ParseSentiment(string(p.SentimentTrend))
}

func cloneStrings(in []string) []string {
	return append(make([]string, 0, len(in)), in...)
}

func cloneDetails(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func containsString(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

// unionOrdered appends the values not already present, keeping first-seen order.
func unionOrdered(base []string, values ...string) []string {
	out := cloneStrings(base)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || containsString(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
