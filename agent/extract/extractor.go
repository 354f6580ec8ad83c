package extract

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

const (
	defaultMeetingTime    = "TBD"
	defaultMeetingPurpose = "Project Discussion"
	defaultProjectName    = "New Project"
	defaultProjectType    = "AI Solution"
	defaultProjectDesc    = "To be discussed"
)

// Extractor turns a client message into profile updates.
type Extractor struct {
	model   contractx.LanguageModel
	catalog string
}

func New(model contractx.LanguageModel) *Extractor {
	return &Extractor{
		model:   model,
		catalog: strings.Join(profile.ServiceCategories, ", "),
	}
}

// Extract merges the model's structured fields with the keyword rules. The keyword rules
// always apply; a non-nil error reports that the model path failed and only the keyword
// updates were returned, so no profile field is set from the message text.
func (e *Extractor) Extract(ctx context.Context, message string) (profile.Updates, error) {
	var (
		updates  profile.Updates
		modelErr error
	)

	if e.model == nil {
		modelErr = fmt.Errorf("%w: extraction model is not configured", contractx.ErrModelInvoke)
	} else {
		updates, modelErr = e.fromModel(ctx, message)
	}

	if modelErr != nil {
		updates = profile.Updates{}
	}

	kw := KeywordUpdates(message)
	updates.Preferences = append(updates.Preferences, kw.Preferences...)
	updates.Tags = append(updates.Tags, kw.Tags...)
	updates.Issues = append(updates.Issues, kw.Issues...)
	return updates, modelErr
}

func (e *Extractor) fromModel(ctx context.Context, message string) (profile.Updates, error) {
	raw, err := e.model.Complete(ctx, map[string]any{
		"message":         message,
		"service_catalog": e.catalog,
	})
	if err != nil {
		return profile.Updates{}, err
	}
	fields, err := ParseFields(raw)
	if err != nil {
		return profile.Updates{}, err
	}
	return fields.Updates(), nil
}

// Fields is the typed view of the extraction JSON; empty values mean "not found".
type Fields struct {
	CompanyName        string
	CompanyType        string
	Industry           string
	Email              string
	Phone              string
	MeetingDate        string
	MeetingTime        string
	ProjectName        string
	ProjectType        string
	ProjectDescription string
	Requirements       []string
	Budget             string
	Timeline           string
	ServicesInterested []string
}

var errNoJSONObject = errors.New("no json object in model output")

// ParseFields decodes the first JSON object in raw, treating null and placeholder values as absent.
func ParseFields(raw string) (Fields, error) {
	obj, ok := firstJSONObject(raw)
	if !ok {
		return Fields{}, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, errNoJSONObject)
	}

	var m map[string]any
	if err := sonic.UnmarshalString(obj, &m); err != nil {
		return Fields{}, fmt.Errorf("%w: decode extraction json: %v", contractx.ErrSchemaViolation, err)
	}

	return Fields{
		CompanyName:        stringField(m, "company_name"),
		CompanyType:        stringField(m, "company_type"),
		Industry:           stringField(m, "industry"),
		Email:              stringField(m, "email"),
		Phone:              stringField(m, "phone"),
		MeetingDate:        stringField(m, "meeting_date"),
		MeetingTime:        stringField(m, "meeting_time"),
		ProjectName:        stringField(m, "project_name"),
		ProjectType:        stringField(m, "project_type"),
		ProjectDescription: stringField(m, "project_description"),
		Requirements:       listField(m, "requirements"),
		Budget:             stringField(m, "budget"),
		Timeline:           stringField(m, "timeline"),
		ServicesInterested: listField(m, "services_interested"),
	}, nil
}

// Updates maps extracted fields to profile updates, filling the same defaults for
// meetings and proposed projects every time.
func (f Fields) Updates() profile.Updates {
	u := profile.Updates{
		Company:          f.CompanyName,
		CompanyType:      f.CompanyType,
		Industry:         f.Industry,
		Email:            f.Email,
		Phone:            f.Phone,
		Requirements:     f.Requirements,
		ServiceInterests: f.ServicesInterested,
		Budget:           f.Budget,
		Timeline:         f.Timeline,
	}

	if f.MeetingDate != "" {
		u.Meeting = &profile.Meeting{
			Date:    f.MeetingDate,
			Time:    firstNonEmpty(f.MeetingTime, defaultMeetingTime),
			Purpose: defaultMeetingPurpose,
		}
	}
	if f.ProjectName != "" || f.ProjectType != "" {
		u.Project = &profile.ProposedEngagement{
			ProjectName: firstNonEmpty(f.ProjectName, f.ProjectType, defaultProjectName),
			ProjectType: firstNonEmpty(f.ProjectType, defaultProjectType),
			Description: firstNonEmpty(f.ProjectDescription, defaultProjectDesc),
		}
	}
	return u
}

// firstJSONObject returns the first balanced {...} span, skipping braces inside strings.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return cleanValue(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func listField(m map[string]any, key string) []string {
	var out []string
	switch v := m[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = cleanValue(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		if s := cleanValue(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "null", "none", "n/a", "unknown", "not mentioned":
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
