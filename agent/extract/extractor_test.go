package extract

import (
	"context"
	"errors"
	"reflect"
	"testing"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

type fakeModel struct {
	reply string
	err   error
	vars  map[string]any
}

func (f *fakeModel) Complete(ctx context.Context, vars map[string]any) (string, error) {
	f.vars = vars
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestExtractAppliesModelFields(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: "Sure! Here you go:\n```json\n" + `{
		"company_name": "MedCare",
		"company_type": "Hospital",
		"industry": "Healthcare",
		"email": "ops@medcare.example",
		"phone": null,
		"meeting_date": "2026-03-10",
		"meeting_time": null,
		"project_name": null,
		"project_type": "Chatbot",
		"project_description": "patient triage {beta}",
		"requirements": ["HIPAA", null, "none"],
		"budget": 50000,
		"timeline": "Q2",
		"services_interested": ["NLP & Conversational AI"]
	}` + "\n```"}

	got, err := New(model).Extract(context.Background(), "We are MedCare, email ops@medcare.example")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if model.vars["message"] != "We are MedCare, email ops@medcare.example" || model.vars["service_catalog"] == "" {
		t.Fatalf("model vars = %#v", model.vars)
	}
	if got.Company != "MedCare" || got.CompanyType != "Hospital" || got.Email != "ops@medcare.example" || got.Phone != "" {
		t.Fatalf("company/contact = %+v", got)
	}
	if got.Meeting == nil || got.Meeting.Time != "TBD" || got.Meeting.Purpose != "Project Discussion" {
		t.Fatalf("meeting = %+v", got.Meeting)
	}
	if got.Project == nil || got.Project.ProjectName != "Chatbot" || got.Project.ProjectType != "Chatbot" || got.Project.Description != "patient triage {beta}" {
		t.Fatalf("project = %+v", got.Project)
	}
	if !reflect.DeepEqual(got.Requirements, []string{"HIPAA"}) || got.Budget != "50000" || got.Timeline != "Q2" {
		t.Fatalf("requirements=%v budget=%q timeline=%q", got.Requirements, got.Budget, got.Timeline)
	}
}

func TestExtractModelFailureKeepsOnlyKeywords(t *testing.T) {
	t.Parallel()

	model := &fakeModel{err: contractx.ErrModelInvoke}
	msg := "Acme here, reach me at jane@acme.io or +1 415 555 0100. We need this ASAP"

	got, err := New(model).Extract(context.Background(), msg)
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Extract() error = %v, want ErrModelInvoke", err)
	}
	if got.Company != "" {
		t.Fatalf("company = %q, want unchanged", got.Company)
	}
	if got.Email != "" || got.Phone != "" {
		t.Fatalf("email=%q phone=%q, want no contact updates", got.Email, got.Phone)
	}
	if !reflect.DeepEqual(got.Tags, []string{TagHighPriority}) {
		t.Fatalf("tags = %v", got.Tags)
	}
}

func TestExtractMalformedJSONStillTags(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: "I could not find anything useful"}
	got, err := New(model).Extract(context.Background(), "our factory line is broken, urgent")
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("Extract() error = %v, want ErrSchemaViolation", err)
	}
	if len(got.Issues) != 1 || got.Issues[0].Category != IssueCategoryReported || got.Issues[0].Severity != "medium" {
		t.Fatalf("issues = %+v", got.Issues)
	}
	if !reflect.DeepEqual(got.Tags, []string{"industry:manufacturing", TagHighPriority}) {
		t.Fatalf("tags = %v", got.Tags)
	}
}

func TestExtractWithoutModel(t *testing.T) {
	t.Parallel()

	got, err := New(nil).Extract(context.Background(), "need a chatbot")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Extract() error = %v, want ErrModelInvoke", err)
	}
	if len(got.Preferences) == 0 {
		t.Fatal("keyword preferences should still apply")
	}
}

func TestParseFieldsProjectDefaults(t *testing.T) {
	t.Parallel()

	f, err := ParseFields(`{"project_name":"Vision QA"} trailing {"ignored":true}`)
	if err != nil {
		t.Fatalf("ParseFields() error = %v", err)
	}
	u := f.Updates()
	if u.Project == nil || u.Project.ProjectType != "AI Solution" || u.Project.Description != "To be discussed" {
		t.Fatalf("project = %+v", u.Project)
	}
	if u.Meeting != nil {
		t.Fatalf("meeting = %+v, want nil", u.Meeting)
	}
	if !(profile.Updates{}).IsEmpty() || u.IsEmpty() {
		t.Fatal("IsEmpty() mismatch")
	}
}

func TestFirstJSONObjectSkipsBracesInStrings(t *testing.T) {
	t.Parallel()

	got, ok := firstJSONObject(`prefix {"a":"}{","b":{"c":1}} suffix}`)
	if !ok || got != `{"a":"}{","b":{"c":1}}` {
		t.Fatalf("firstJSONObject() = %q, %v", got, ok)
	}
	if _, ok := firstJSONObject("no object {"); ok {
		t.Fatal("firstJSONObject() should fail on unbalanced input")
	}
}
