// Package matching implements fuzzy identity matching for students,
// supervisors and theses.
package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

// Match pairs a candidate with its similarity score
type Match[T any] struct {
	Candidate T
	Score     float64
}

// ThesisMatch pairs a thesis candidate with a score and the human readable
// reasons behind it.
type ThesisMatch struct {
	Candidate models.Thesis
	Score     float64
	Reason    string
}

// MatcherConfig contains the thresholds for the matcher
type MatcherConfig struct {
	Threshold      float64 // Minimum person score to consider a match
	TitleThreshold float64 // Minimum title similarity before it contributes to a thesis score
}

// DefaultConfig returns default matcher configuration
func DefaultConfig() MatcherConfig {
	return MatcherConfig{
		Threshold:      0.8,
		TitleThreshold: 0.6,
	}
}

// Matcher finds existing records matching incoming person and thesis data
type Matcher struct {
	config MatcherConfig
}

// NewMatcher creates a new matcher
func NewMatcher(config MatcherConfig) *Matcher {
	return &Matcher{config: config}
}

// personFields is the subset of a person used for matching
type personFields struct {
	FirstName string
	LastName  string
	Email     string
}

// matchPersons scores candidates on name similarity with exact email equality
// as a trump card. An email hit returns that single candidate with score 1.0.
// The name score is the average of the first and last name similarities that
// could be computed; candidates below the threshold are dropped. The result is
// sorted by score, highest first, preserving candidate order on ties.
func matchPersons[T any](firstName, lastName, email string, candidates []T, fields func(T) personFields, threshold float64) []Match[T] {
	matches := []Match[T]{}

	for _, candidate := range candidates {
		cf := fields(candidate)

		if email != "" && cf.Email != "" {
			if NormalizeString(email) == NormalizeString(cf.Email) {
				return []Match[T]{{Candidate: candidate, Score: 1.0}}
			}
		}

		scores := []float64{}
		if firstName != "" && cf.FirstName != "" {
			scores = append(scores, SimilarityRatio(firstName, cf.FirstName))
		}
		if lastName != "" && cf.LastName != "" {
			scores = append(scores, SimilarityRatio(lastName, cf.LastName))
		}

		if len(scores) == 0 {
			continue
		}

		total := 0.0
		for _, s := range scores {
			total += s
		}
		overall := total / float64(len(scores))
		if overall >= threshold {
			matches = append(matches, Match[T]{Candidate: candidate, Score: overall})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// MatchStudents finds students matching the given identity. An exact
// matriculation number match wins outright; otherwise matching falls back to
// email and names.
func (m *Matcher) MatchStudents(firstName, lastName, email, studentID string, students []models.Student) []Match[models.Student] {
	if studentID != "" {
		for _, student := range students {
			if student.StudentID != nil && NormalizeString(studentID) == NormalizeString(*student.StudentID) {
				return []Match[models.Student]{{Candidate: student, Score: 1.0}}
			}
		}
	}

	return matchPersons(firstName, lastName, email, students, func(s models.Student) personFields {
		return personFields{FirstName: s.FirstName, LastName: s.LastName, Email: s.Email}
	}, m.config.Threshold)
}

// MatchSupervisors finds supervisors matching the given identity
func (m *Matcher) MatchSupervisors(firstName, lastName, email string, supervisors []models.Supervisor) []Match[models.Supervisor] {
	return matchPersons(firstName, lastName, email, supervisors, func(s models.Supervisor) personFields {
		return personFields{FirstName: s.FirstName, LastName: s.LastName, Email: s.Email}
	}, m.config.Threshold)
}

// MatchTheses finds theses matching on type, student overlap and title. A type
// mismatch disqualifies a candidate outright. Student overlap is the share of
// common students over the larger assignment list. Title similarity only
// contributes when it clears the title threshold. The score is the average of
// the components that applied; there is no overall cutoff.
func (m *Matcher) MatchTheses(thesisType models.ThesisType, title string, studentIDs []string, theses []models.Thesis) []ThesisMatch {
	matches := []ThesisMatch{}

	incoming := map[string]bool{}
	for _, id := range studentIDs {
		incoming[id] = true
	}

	for _, thesis := range theses {
		reasons := []string{}
		components := []float64{}

		if thesisType != "" && thesis.ThesisType != "" {
			if NormalizeString(string(thesisType)) != NormalizeString(string(thesis.ThesisType)) {
				continue
			}
			components = append(components, 1.0)
			reasons = append(reasons, "same type")
		}

		candidateIDs := thesis.StudentIDs()
		if len(studentIDs) > 0 && len(candidateIDs) > 0 {
			common := 0
			for _, id := range candidateIDs {
				if incoming[id] {
					common++
				}
			}
			larger := len(studentIDs)
			if len(candidateIDs) > larger {
				larger = len(candidateIDs)
			}
			components = append(components, float64(common)/float64(larger))
			if common > 0 {
				reasons = append(reasons, fmt.Sprintf("%d student(s) match", common))
			}
		}

		if title != "" && thesis.Title != "" {
			titleSim := SimilarityRatio(title, thesis.Title)
			if titleSim >= m.config.TitleThreshold {
				components = append(components, titleSim)
				reasons = append(reasons, fmt.Sprintf("title similarity: %.0f%%", titleSim*100))
			}
		}

		if len(components) == 0 {
			continue
		}

		total := 0.0
		for _, c := range components {
			total += c
		}
		matches = append(matches, ThesisMatch{
			Candidate: thesis,
			Score:     total / float64(len(components)),
			Reason:    strings.Join(reasons, ", "),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
