package profile

import "sort"

// ServiceCategories is the catalog of services that may be recommended.
var ServiceCategories = []string{
	"AI & Machine Learning",
	"Full-Stack Product Engineering",
	"Analytics & Data Engineering",
	"Cloud & DevOps",
	"Generative AI (LLMs, VLMs)",
	"Computer Vision",
	"NLP & Conversational AI",
	"Predictive Analytics",
	"Workforce Augmentation",
	"AI Consulting",
}

// IndustryVerticals lists the industries shown as suggestions when adding a client.
var IndustryVerticals = []string{
	"Automotive",
	"Healthcare",
	"Finance & Banking",
	"Retail & E-commerce",
	"Manufacturing",
	"Logistics & Supply Chain",
	"Technology",
	"Energy & Utilities",
	"Telecommunications",
}

const MaxRecommendations = 5

var complementaryServices = map[string][]string{
	"AI & Machine Learning":          {"Predictive Analytics", "Computer Vision", "NLP & Conversational AI"},
	"Generative AI (LLMs, VLMs)":     {"AI Consulting", "Full-Stack Product Engineering", "Workforce Augmentation"},
	"Full-Stack Product Engineering": {"Cloud & DevOps", "Analytics & Data Engineering", "AI & Machine Learning"},
	"Analytics & Data Engineering":   {"Predictive Analytics", "AI & Machine Learning", "Cloud & DevOps"},
	"Cloud & DevOps":                 {"Full-Stack Product Engineering", "Analytics & Data Engineering", "AI & Machine Learning"},
	"Computer Vision":                {"AI & Machine Learning", "Generative AI (LLMs, VLMs)", "Full-Stack Product Engineering"},
	"NLP & Conversational AI":        {"Generative AI (LLMs, VLMs)", "AI Consulting", "Full-Stack Product Engineering"},
	"Predictive Analytics":           {"Analytics & Data Engineering", "AI & Machine Learning", "AI Consulting"},
	"Workforce Augmentation":         {"AI Consulting", "Full-Stack Product Engineering", "Generative AI (LLMs, VLMs)"},
	"AI Consulting":                  {"Full-Stack Product Engineering", "Generative AI (LLMs, VLMs)", "AI & Machine Learning"},
}

func IsServiceCategory(v string) bool {
	return containsString(ServiceCategories, v)
}

// Recommend returns up to five distinct services for the client.
func (s *Store) Recommend(id string) ([]string, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return RecommendServices(p), nil
}

// RecommendProducts is the older name for Recommend.
func (s *Store) RecommendProducts(id string) ([]string, error) {
	return s.Recommend(id)
}

// RecommendServices ranks the client's engagement categories by count, with ties kept in
// first-encounter order, expands the top two through the complementary table, then appends
// declared interests that are catalog services.
func RecommendServices(p *Profile) []string {
	type tally struct {
		category string
		count    int
	}
	var counts []tally
	index := make(map[string]int)
	for _, e := range p.ProjectHistory {
		i, ok := index[e.Category]
		if !ok {
			i = len(counts)
			index[e.Category] = i
			counts = append(counts, tally{category: e.Category})
		}
		counts[i].count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > 2 {
		counts = counts[:2]
	}

	var out []string
	for _, c := range counts {
		out = unionOrdered(out, complementaryServices[c.category]...)
	}
	for _, interest := range append(cloneStrings(p.Preferences), p.ServiceInterests...) {
		if IsServiceCategory(interest) {
			out = unionOrdered(out, interest)
		}
	}
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	if out == nil {
		out = []string{}
	}
	return out
}
