package extraction

import (
	"context"
	"strings"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

// columnAliases maps well-known header names to canonical fields. Header
// matching is case-insensitive and ignores surrounding whitespace.
var columnAliases = map[string][]string{
	"first_name":         {"first_name", "firstname", "first name", "vorname"},
	"last_name":          {"last_name", "lastname", "last name", "nachname", "name"},
	"email":              {"email", "e-mail", "mail"},
	"student_id":         {"student_id", "matriculation", "matrikelnummer", "matrikel"},
	"supervisor":         {"supervisor", "supervisors", "betreuer", "advisor"},
	"title":              {"title", "titel", "topic", "thema"},
	"thesis_type":        {"thesis_type", "type", "typ", "art"},
	"phase":              {"phase", "status", "state"},
	"date_first_contact": {"date_first_contact", "first_contact", "erstkontakt"},
	"date_registration":  {"date_registration", "registration", "anmeldung"},
	"date_deadline":      {"date_deadline", "deadline", "abgabe"},
	"date_presentation":  {"date_presentation", "presentation", "vortrag", "kolloquium"},
	"description":        {"description", "notes", "notizen", "bemerkung", "bemerkungen"},
}

// RuleBasedExtractor extracts thesis records from rows with recognizable
// column names. It is deterministic and needs no external service, which
// makes it the dry-run fallback and the test double for the LLM extractor.
type RuleBasedExtractor struct{}

// NewRuleBasedExtractor creates a new rule based extractor
func NewRuleBasedExtractor() *RuleBasedExtractor {
	return &RuleBasedExtractor{}
}

func (e *RuleBasedExtractor) Extract(ctx context.Context, row Row) (*ThesisInfo, error) {
	lookup := make(map[string]string, len(row))
	for key, value := range row {
		lookup[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	field := func(name string) string {
		for _, alias := range columnAliases[name] {
			if v, ok := lookup[alias]; ok && v != "" {
				return v
			}
		}
		return ""
	}

	firstName, lastName := field("first_name"), field("last_name")
	if firstName == "" && strings.Contains(lastName, " ") {
		// a single "name" style column may carry "First Last"
		firstName, lastName = splitName(lastName)
	}

	info := &ThesisInfo{
		Student: StudentInfo{
			FirstName: firstName,
			LastName:  lastName,
			Email:     sanitizeEmail(field("email")),
			StudentID: field("student_id"),
		},
		ThesisType:       models.NormalizeThesisType(field("thesis_type")),
		Title:            field("title"),
		Phase:            models.NormalizePhase(field("phase")),
		DateFirstContact: ParseFlexibleDate(field("date_first_contact")),
		DateRegistration: ParseFlexibleDate(field("date_registration")),
		DateDeadline:     ParseFlexibleDate(field("date_deadline")),
		DatePresentation: ParseFlexibleDate(field("date_presentation")),
		Description:      field("description"),
	}

	for _, name := range splitList(field("supervisor")) {
		first, last := splitName(name)
		info.Supervisors = append(info.Supervisors, SupervisorInfo{FirstName: first, LastName: last})
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	raw := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
