package thesisclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/thesis-manager/pkg/httpclient"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	client := NewClient(httpclient.NewClient(httpclient.DefaultConfig(), logger), server.URL, "secret", logger)
	return client, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListStudents(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("page_size"))

		writeJSON(t, w, models.StudentListResponse{
			Items:      []models.Student{{ID: "s-1", FirstName: "Max", LastName: "Mustermann"}},
			TotalCount: 1,
		})
	})

	students, err := client.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Max", students[0].FirstName)
}

func TestListThesesLoadsAssignments(t *testing.T) {
	var detailCalls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/theses":
			writeJSON(t, w, models.ThesisListResponse{
				Items:      []models.Thesis{{ID: "t-1", Title: "Routing"}},
				TotalCount: 1,
			})
		case "/api/theses/t-1":
			detailCalls++
			writeJSON(t, w, models.Thesis{
				ID:       "t-1",
				Title:    "Routing",
				Students: []models.Student{{ID: "s-1"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	theses, err := client.ListTheses(context.Background())
	require.NoError(t, err)
	require.Len(t, theses, 1)
	assert.Equal(t, 1, detailCalls)
	require.Len(t, theses[0].Students, 1)
	assert.Equal(t, "s-1", theses[0].Students[0].ID)
}

func TestListWorkingTheses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/theses", r.URL.Path)
		assert.Equal(t, "working", r.URL.Query().Get("phase"))
		writeJSON(t, w, models.ThesisListResponse{
			Items: []models.Thesis{{ID: "t-1", Phase: models.PhaseWorking}},
		})
	})

	theses, err := client.ListWorkingTheses(context.Background())
	require.NoError(t, err)
	require.Len(t, theses, 1)
}

func TestCreateStudent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/students", r.URL.Path)

		var req models.CreateStudentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "max@example.org", req.Email)

		writeJSON(t, w, models.Student{ID: "s-1", FirstName: req.FirstName, LastName: req.LastName, Email: req.Email})
	})

	student, err := client.CreateStudent(context.Background(), models.CreateStudentRequest{
		FirstName: "Max", LastName: "Mustermann", Email: "max@example.org",
	})
	require.NoError(t, err)
	assert.Equal(t, "s-1", student.ID)
}

func TestAddComment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/theses/t-1/add_comment", r.URL.Path)

		var req models.CreateCommentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "weekly report", req.Text)

		writeJSON(t, w, models.Comment{ID: "c-1", ThesisID: "t-1", Text: req.Text})
	})

	comment, err := client.AddComment(context.Background(), "t-1", "weekly report")
	require.NoError(t, err)
	assert.Equal(t, "c-1", comment.ID)
}

func TestErrorStatusIsReported(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
	})

	_, err := client.ListStudents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
