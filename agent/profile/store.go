package profile

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type Option func(*Store)

// WithClock overrides the time source used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store keeps client profiles in memory. All reads return copies.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	order    []string
	now      func() time.Time
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		profiles: make(map[string]*Profile),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(id, name string, contact Contact) (*Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: profile id is empty", ErrInvalidValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileExists, id)
	}
	p := s.newProfileLocked(id, name)
	p.Email = strings.TrimSpace(contact.Email)
	p.Company = strings.TrimSpace(contact.Company)
	p.Industry = strings.TrimSpace(contact.Industry)
	s.putLocked(p)
	return p.Clone(), nil
}

// GetOrCreate returns the existing profile or registers a bare one.
func (s *Store) GetOrCreate(id, name string) (*Profile, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, fmt.Errorf("%w: profile id is empty", ErrInvalidValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[id]; ok {
		return p.Clone(), false, nil
	}
	p := s.newProfileLocked(id, name)
	s.putLocked(p)
	return p.Clone(), true, nil
}

func (s *Store) Get(id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return p.Clone(), nil
}

// List returns every profile in creation order.
func (s *Store) List() []*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Profile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.profiles[id].Clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Reset drops every profile.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = make(map[string]*Profile)
	s.order = nil
}

// UpdatePreferences merges interests into the profile, keeping first-seen order.
func (s *Store) UpdatePreferences(id string, preferences []string) error {
	return s.mutate(id, func(p *Profile) error {
		p.Preferences = unionOrdered(p.Preferences, preferences...)
		return nil
	})
}

// AddEngagement appends to the project history and adds its value to the cumulative project value.
func (s *Store) AddEngagement(id string, e Engagement) error {
	if e.Value < 0 {
		return fmt.Errorf("%w: engagement value %.2f is negative", ErrInvalidValue, e.Value)
	}
	e.ProjectName = strings.TrimSpace(e.ProjectName)
	if e.ProjectName == "" {
		return fmt.Errorf("%w: engagement name is empty", ErrInvalidValue)
	}
	return s.mutate(id, func(p *Profile) error {
		if e.Status == "" {
			e.Status = StatusInProgress
		}
		if e.Date.IsZero() {
			e.Date = s.now().UTC()
		}
		e.Details = cloneDetails(e.Details)
		p.ProjectHistory = append(p.ProjectHistory, e)
		p.ProjectValue += e.Value
		return nil
	})
}

// AddPurchase records a completed engagement under the older purchase naming.
func (s *Store) AddPurchase(id, product string, amount float64, category string, details map[string]any) error {
	return s.AddEngagement(id, Engagement{
		ProjectName: product,
		Value:       amount,
		Category:    category,
		Status:      StatusCompleted,
		Details:     details,
	})
}

// UpdateCompanyInfo sets the non-empty organization fields.
func (s *Store) UpdateCompanyInfo(id, company, companyType, industry string) error {
	return s.mutate(id, func(p *Profile) error {
		setIfPresent(&p.Company, company)
		setIfPresent(&p.CompanyType, companyType)
		setIfPresent(&p.Industry, industry)
		return nil
	})
}

// UpdateContactInfo sets the non-empty contact fields.
func (s *Store) UpdateContactInfo(id, email, phone string) error {
	return s.mutate(id, func(p *Profile) error {
		setIfPresent(&p.Email, email)
		setIfPresent(&p.Phone, phone)
		return nil
	})
}

func (s *Store) AddScheduledMeeting(id string, m Meeting) error {
	return s.mutate(id, func(p *Profile) error {
		m.Status = StatusScheduled
		m.CreatedAt = s.now().UTC()
		m.Details = cloneDetails(m.Details)
		p.ScheduledMeetings = append(p.ScheduledMeetings, m)
		return nil
	})
}

func (s *Store) AddProposedProject(id string, e ProposedEngagement) error {
	if e.EstimatedValue != nil && *e.EstimatedValue < 0 {
		return fmt.Errorf("%w: estimated value is negative", ErrInvalidValue)
	}
	return s.mutate(id, func(p *Profile) error {
		e.Status = StatusProposed
		e.CreatedAt = s.now().UTC()
		e.Details = cloneDetails(e.Details)
		p.ProposedProjects = append(p.ProposedProjects, e)
		return nil
	})
}

func (s *Store) UpdateServiceInterests(id string, services []string) error {
	return s.mutate(id, func(p *Profile) error {
		p.ServiceInterests = unionOrdered(p.ServiceInterests, services...)
		return nil
	})
}

func (s *Store) AddKeyRequirement(id, requirement string) error {
	return s.mutate(id, func(p *Profile) error {
		p.KeyRequirements = unionOrdered(p.KeyRequirements, requirement)
		return nil
	})
}

// AddIssue records a reported issue; it counts as resolved only when a resolution is given.
func (s *Store) AddIssue(id string, issue Issue) error {
	return s.mutate(id, func(p *Profile) error {
		if issue.Severity == "" {
			issue.Severity = "medium"
		}
		issue.Resolution = strings.TrimSpace(issue.Resolution)
		issue.Resolved = issue.Resolution != ""
		issue.Date = s.now().UTC()
		p.IssuesReported = append(p.IssuesReported, issue)
		return nil
	})
}

// UpdateSentiment stores the coerced label and returns it.
func (s *Store) UpdateSentiment(id, raw string) (Sentiment, error) {
	sentiment := ParseSentiment(raw)
	err := s.mutate(id, func(p *Profile) error {
		p.SentimentTrend = sentiment
		return nil
	})
	return sentiment, err
}

// UpdateLastInteraction replaces the last-interaction note and bumps the interaction counter.
func (s *Store) UpdateLastInteraction(id, summary string) error {
	return s.mutate(id, func(p *Profile) error {
		p.LastInteractionSummary = summary
		p.InteractionCount++
		return nil
	})
}

func (s *Store) AddTag(id, tag string) error {
	return s.mutate(id, func(p *Profile) error {
		p.Tags = unionOrdered(p.Tags, tag)
		return nil
	})
}

func (s *Store) mutate(id string, fn func(p *Profile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	next := p.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.UpdatedAt = s.now().UTC()
	s.profiles[id] = next
	return nil
}

func (s *Store) newProfileLocked(id, name string) *Profile {
	now := s.now().UTC()
	name = strings.TrimSpace(name)
	if name == "" {
		name = id
	}
	p := &Profile{
		ID:             id,
		Name:           name,
		SentimentTrend: SentimentNeutral,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	p.normalize()
	return p
}

func (s *Store) putLocked(p *Profile) {
	if _, ok := s.profiles[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.profiles[p.ID] = p
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
