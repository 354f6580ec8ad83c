package profile

import "errors"

// Updates is the set of field changes derived from one client message.
// Zero values mean "no update".
type Updates struct {
	Company     string
	CompanyType string
	Industry    string
	Email       string
	Phone       string

	Meeting *Meeting
	Project *ProposedEngagement

	Requirements     []string
	ServiceInterests []string
	Budget           string
	Timeline         string

	Preferences []string
	Tags        []string
	Issues      []Issue
}

func (u Updates) IsEmpty() bool {
	return u.Company == "" && u.CompanyType == "" && u.Industry == "" &&
		u.Email == "" && u.Phone == "" &&
		u.Meeting == nil && u.Project == nil &&
		len(u.Requirements) == 0 && len(u.ServiceInterests) == 0 &&
		u.Budget == "" && u.Timeline == "" &&
		len(u.Preferences) == 0 && len(u.Tags) == 0 && len(u.Issues) == 0
}

// ApplyUpdates applies every present field in a fixed order and reports all failures joined.
func (s *Store) ApplyUpdates(id string, u Updates) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	var errs []error
	if u.Company != "" || u.CompanyType != "" || u.Industry != "" {
		errs = append(errs, s.UpdateCompanyInfo(id, u.Company, u.CompanyType, u.Industry))
	}
	if u.Email != "" || u.Phone != "" {
		errs = append(errs, s.UpdateContactInfo(id, u.Email, u.Phone))
	}
	if u.Meeting != nil {
		errs = append(errs, s.AddScheduledMeeting(id, *u.Meeting))
	}
	if u.Project != nil {
		errs = append(errs, s.AddProposedProject(id, *u.Project))
	}
	for _, req := range u.Requirements {
		if req != "" {
			errs = append(errs, s.AddKeyRequirement(id, req))
		}
	}
	if len(u.ServiceInterests) > 0 {
		errs = append(errs, s.UpdateServiceInterests(id, u.ServiceInterests))
	}
	if u.Budget != "" || u.Timeline != "" {
		errs = append(errs, s.mutate(id, func(p *Profile) error {
			setIfPresent(&p.EstimatedBudget, u.Budget)
			setIfPresent(&p.DecisionTimeline, u.Timeline)
			return nil
		}))
	}
	if len(u.Preferences) > 0 {
		errs = append(errs, s.UpdatePreferences(id, u.Preferences))
	}
	for _, tag := range u.Tags {
		errs = append(errs, s.AddTag(id, tag))
	}
	for _, issue := range u.Issues {
		errs = append(errs, s.AddIssue(id, issue))
	}
	return errors.Join(errs...)
}
