package app

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the demo data set: clients with past engagements and the messages to replay.
type Seed struct {
	Clients      []SeedClient      `yaml:"clients"`
	Interactions []SeedInteraction `yaml:"interactions"`
}

type SeedClient struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Email       string           `yaml:"email"`
	Company     string           `yaml:"company"`
	Industry    string           `yaml:"industry"`
	Engagements []SeedEngagement `yaml:"engagements"`
}

type SeedEngagement struct {
	Project  string  `yaml:"project"`
	Value    float64 `yaml:"value"`
	Category string  `yaml:"category"`
}

type SeedInteraction struct {
	ClientID string `yaml:"client_id"`
	Message  string `yaml:"message"`
}

func DefaultSeed() (*Seed, error) {
	return LoadSeed(seedYAML)
}

func LoadSeed(data []byte) (*Seed, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Seed
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &s, nil
}

// Apply creates every client and records its engagements as completed work.
func (s *Seed) Apply(store *profile.Store) error {
	for _, c := range s.Clients {
		if _, err := store.Create(c.ID, c.Name, profile.Contact{
			Email:    c.Email,
			Company:  c.Company,
			Industry: c.Industry,
		}); err != nil {
			return err
		}
		for _, e := range c.Engagements {
			if err := store.AddPurchase(c.ID, e.Project, e.Value, e.Category, nil); err != nil {
				return fmt.Errorf("seed %s engagement %q: %w", c.ID, e.Project, err)
			}
		}
	}
	return nil
}

// ClientName returns the seeded name for id, or id itself.
func (s *Seed) ClientName(id string) string {
	for _, c := range s.Clients {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}
