package profile

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

const summaryRule = "================================================================================"

// FormatMoney renders an amount as $1,234.50.
func FormatMoney(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Summary renders the human-readable profile card used as model context and in the dashboard.
func (s *Store) Summary(id string) (string, error) {
	p, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return RenderSummary(p), nil
}

func RenderSummary(p *Profile) string {
	var b strings.Builder

	b.WriteString(summaryRule + "\n")
	b.WriteString("                    ENTERPRISE CLIENT PROFILE\n")
	b.WriteString(summaryRule + "\n")

	section(&b, "BASIC INFORMATION")
	fmt.Fprintf(&b, "Client Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Client ID: %s\n", p.ID)
	fmt.Fprintf(&b, "Company: %s\n", orDefault(p.Company, "Not specified yet"))
	fmt.Fprintf(&b, "Company Type: %s\n", orDefault(p.CompanyType, "Not specified yet"))
	fmt.Fprintf(&b, "Industry: %s\n", orDefault(p.Industry, "Not specified yet"))
	fmt.Fprintf(&b, "Email: %s\n", orDefault(p.Email, "Not provided"))
	fmt.Fprintf(&b, "Phone: %s\n", orDefault(p.Phone, "Not provided"))

	section(&b, "ENGAGEMENT METRICS")
	fmt.Fprintf(&b, "Sentiment: %s\n", strings.ToUpper(string(p.SentimentTrend)))
	fmt.Fprintf(&b, "Total Interactions: %d\n", p.InteractionCount)
	fmt.Fprintf(&b, "Total Project Value: %s\n", FormatMoney(p.ProjectValue))
	fmt.Fprintf(&b, "Estimated Budget: %s\n", orDefault(p.EstimatedBudget, "Not discussed"))
	fmt.Fprintf(&b, "Decision Timeline: %s\n", orDefault(p.DecisionTimeline, "Not specified"))

	section(&b, "AI/TECH INTERESTS")
	b.WriteString(joinOr(p.Preferences, "No interests identified yet") + "\n")

	section(&b, "SERVICE INTERESTS")
	b.WriteString(joinOr(p.ServiceInterests, "No specific services discussed yet") + "\n")

	section(&b, "KEY REQUIREMENTS")
	if len(p.KeyRequirements) == 0 {
		b.WriteString("No specific requirements captured yet\n")
	}
	for _, req := range p.KeyRequirements {
		fmt.Fprintf(&b, "  * %s\n", req)
	}

	section(&b, "SCHEDULED MEETINGS")
	if len(p.ScheduledMeetings) == 0 {
		b.WriteString("No meetings scheduled\n")
	}
	for _, m := range p.ScheduledMeetings {
		fmt.Fprintf(&b, "  * %s at %s - %s [%s]\n", m.Date, m.Time, m.Purpose, m.Status)
	}

	section(&b, "PROPOSED PROJECTS")
	if len(p.ProposedProjects) == 0 {
		b.WriteString("No projects proposed yet\n")
	}
	for _, e := range p.ProposedProjects {
		value := "TBD"
		if e.EstimatedValue != nil && *e.EstimatedValue > 0 {
			value = FormatMoney(*e.EstimatedValue)
		}
		fmt.Fprintf(&b, "  * %s (%s)\n", e.ProjectName, e.ProjectType)
		fmt.Fprintf(&b, "    Description: %s\n", e.Description)
		fmt.Fprintf(&b, "    Estimated Value: %s | Status: %s\n", value, e.Status)
	}

	section(&b, "COMPLETED PROJECTS")
	if len(p.ProjectHistory) == 0 {
		b.WriteString("No completed projects yet\n")
	}
	for _, e := range lastN(p.ProjectHistory, 5) {
		status := "[IN PROGRESS]"
		if e.Status == StatusCompleted {
			status = "[DONE]"
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", status, e.ProjectName, FormatMoney(e.Value))
		fmt.Fprintf(&b, "          Category: %s | Date: %s\n", e.Category, e.Date.Format("2006-01-02"))
	}

	if len(p.IssuesReported) > 0 {
		section(&b, "SUPPORT REQUESTS")
		for _, issue := range lastN(p.IssuesReported, 3) {
			status := "[OPEN]"
			if issue.Resolved {
				status = "[RESOLVED]"
			}
			fmt.Fprintf(&b, "  %s %s\n", status, issue.Description)
		}
	}

	section(&b, "TAGS")
	b.WriteString(joinOr(p.Tags, "No tags") + "\n")

	section(&b, "LAST INTERACTION")
	b.WriteString(orDefault(p.LastInteractionSummary, "No previous interaction") + "\n")

	b.WriteString("\n" + summaryRule + "\n")
	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func lastN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
