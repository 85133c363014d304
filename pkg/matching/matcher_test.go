package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

func strPtr(s string) *string {
	return &s
}

func TestMatchStudents(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	students := []models.Student{
		{ID: "s1", FirstName: "Alice", LastName: "Smith", Email: "alice.smith@example.com", StudentID: strPtr("1001")},
		{ID: "s2", FirstName: "Bob", LastName: "Jones", Email: "bob.jones@example.com"},
		{ID: "s3", FirstName: "Alicia", LastName: "Smith", Email: "alicia.smith@example.com"},
	}

	t.Run("matriculation number wins outright", func(t *testing.T) {
		matches := m.MatchStudents("Zelda", "Different", "other@example.com", " 1001 ", students)
		require.Len(t, matches, 1)
		assert.Equal(t, "s1", matches[0].Candidate.ID)
		assert.Equal(t, 1.0, matches[0].Score)
	})

	t.Run("exact email wins outright", func(t *testing.T) {
		matches := m.MatchStudents("Zelda", "Different", "BOB.JONES@example.com", "", students)
		require.Len(t, matches, 1)
		assert.Equal(t, "s2", matches[0].Candidate.ID)
		assert.Equal(t, 1.0, matches[0].Score)
	})

	t.Run("name similarity above threshold", func(t *testing.T) {
		matches := m.MatchStudents("Alice", "Smith", "", "", students)
		require.NotEmpty(t, matches)
		assert.Equal(t, "s1", matches[0].Candidate.ID)
		assert.Equal(t, 1.0, matches[0].Score)
		// Alicia Smith is similar but scores lower
		for i := 1; i < len(matches); i++ {
			assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
		}
	})

	t.Run("dissimilar names are filtered", func(t *testing.T) {
		matches := m.MatchStudents("Xavier", "Quixote", "", "", students)
		assert.Empty(t, matches)
	})

	t.Run("no usable fields yields no matches", func(t *testing.T) {
		matches := m.MatchStudents("", "", "", "", students)
		assert.Empty(t, matches)
	})
}

func TestMatchSupervisors(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	supervisors := []models.Supervisor{
		{ID: "p1", FirstName: "Carol", LastName: "Mueller", Email: "carol.mueller@example.com"},
		{ID: "p2", FirstName: "Dan", LastName: "Weber", Email: "dan.weber@example.com"},
	}

	t.Run("email equality trumps names", func(t *testing.T) {
		matches := m.MatchSupervisors("Nobody", "Nothing", "carol.mueller@example.com", supervisors)
		require.Len(t, matches, 1)
		assert.Equal(t, "p1", matches[0].Candidate.ID)
		assert.Equal(t, 1.0, matches[0].Score)
	})

	t.Run("single name field is enough", func(t *testing.T) {
		matches := m.MatchSupervisors("", "Weber", "", supervisors)
		require.Len(t, matches, 1)
		assert.Equal(t, "p2", matches[0].Candidate.ID)
		assert.Equal(t, 1.0, matches[0].Score)
	})
}

func TestMatchTheses(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	theses := []models.Thesis{
		{
			ID:         "t1",
			Title:      "Graph Coloring Heuristics",
			ThesisType: models.ThesisTypeBachelor,
			Phase:      models.PhaseWorking,
			Students:   []models.Student{{ID: "s1"}},
		},
		{
			ID:         "t2",
			Title:      "Neural Network Pruning",
			ThesisType: models.ThesisTypeMaster,
			Phase:      models.PhaseRegistered,
			Students:   []models.Student{{ID: "s1"}},
		},
		{
			ID:         "t3",
			Title:      "",
			ThesisType: models.ThesisTypeBachelor,
			Phase:      models.PhaseFirstContact,
			Students:   []models.Student{{ID: "s2"}, {ID: "s3"}},
		},
	}

	t.Run("type mismatch disqualifies", func(t *testing.T) {
		matches := m.MatchTheses(models.ThesisTypeProject, "", []string{"s1"}, theses)
		assert.Empty(t, matches)
	})

	t.Run("type and student agreement", func(t *testing.T) {
		matches := m.MatchTheses(models.ThesisTypeBachelor, "", []string{"s1"}, theses)
		require.NotEmpty(t, matches)
		assert.Equal(t, "t1", matches[0].Candidate.ID)
		assert.Equal(t, 1.0, matches[0].Score)
		assert.Contains(t, matches[0].Reason, "same type")
		assert.Contains(t, matches[0].Reason, "1 student(s) match")
	})

	t.Run("partial student overlap", func(t *testing.T) {
		matches := m.MatchTheses(models.ThesisTypeBachelor, "", []string{"s2"}, theses)
		require.NotEmpty(t, matches)
		// t3 has two students, one in common: overlap 1/2, averaged with type 1.0
		var found *ThesisMatch
		for i := range matches {
			if matches[i].Candidate.ID == "t3" {
				found = &matches[i]
			}
		}
		require.NotNil(t, found)
		assert.InDelta(t, 0.75, found.Score, 1e-9)
	})

	t.Run("title similarity only counts above the threshold", func(t *testing.T) {
		// Dissimilar title does not drag the score down
		matches := m.MatchTheses(models.ThesisTypeBachelor, "Completely Unrelated Topic", []string{"s1"}, theses)
		require.NotEmpty(t, matches)
		assert.Equal(t, "t1", matches[0].Candidate.ID)
		assert.Equal(t, 1.0, matches[0].Score)
		assert.NotContains(t, matches[0].Reason, "title similarity")
	})

	t.Run("matching title contributes", func(t *testing.T) {
		matches := m.MatchTheses(models.ThesisTypeBachelor, "Graph Coloring Heuristics", []string{"s1"}, theses)
		require.NotEmpty(t, matches)
		assert.Equal(t, "t1", matches[0].Candidate.ID)
		assert.Equal(t, 1.0, matches[0].Score)
		assert.Contains(t, matches[0].Reason, "title similarity: 100%")
	})

	t.Run("results are sorted by score", func(t *testing.T) {
		matches := m.MatchTheses("", "", []string{"s1", "s2"}, theses)
		for i := 1; i < len(matches); i++ {
			assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
		}
	})
}

func TestFormatDisplays(t *testing.T) {
	student := models.Student{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", StudentID: strPtr("1001")}
	assert.Equal(t, "  Alice Smith (alice@example.com) [ID: 1001] - Match: 95%", FormatStudentDisplay(student, 0.95))

	supervisor := models.Supervisor{FirstName: "Carol", LastName: "Mueller", Email: "carol@example.com"}
	assert.Equal(t, "  Carol Mueller (carol@example.com) - Match: 80%", FormatSupervisorDisplay(supervisor, 0.8))

	thesis := models.Thesis{Title: "Graph Coloring", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseWorking}
	out := FormatThesisDisplay(thesis, 1.0, "same type")
	assert.Equal(t, "  [bachelor] Graph Coloring (phase: working) - Match: 100% (same type)", out)

	untitled := models.Thesis{ThesisType: models.ThesisTypeMaster, Phase: models.PhaseRegistered}
	assert.Contains(t, FormatThesisDisplay(untitled, 0.5, ""), "Untitled")
}
