package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/thesis-manager/pkg/httpclient"
)

func TestExtractProjectPath(t *testing.T) {
	cases := map[string]string{
		"https://gitlab.com/group/project":              "group/project",
		"https://gitlab.com/group/project.git":          "group/project",
		"https://gitlab.example.com/group/sub/project":  "group/sub/project",
		"git@gitlab.com:group/project.git":              "group/project",
		"git@gitlab.example.com:group/sub/project":      "group/sub/project",
		"": "",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, ExtractProjectPath(input), "input: %q", input)
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	hc := httpclient.NewClient(httpclient.DefaultConfig(), logger)
	return NewClient(hc, server.URL, "test-token", logger), server
}

func TestGetProject(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("PRIVATE-TOKEN"))
		switch r.URL.EscapedPath() {
		case "/api/v4/projects/group%2Fproject":
			json.NewEncoder(w).Encode(Project{ID: 42, PathWithNamespace: "group/project"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	project, err := client.GetProject(context.Background(), "group/project")
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, 42, project.ID)

	missing, err := client.GetProject(context.Background(), "group/missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCollectRecentCommits(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/42/repository/branches", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Branch{{Name: "main"}, {Name: "feature"}})
	})
	mux.HandleFunc("/api/v4/projects/42/repository/commits", func(w http.ResponseWriter, r *http.Request) {
		// both branches share the same commit
		json.NewEncoder(w).Encode([]commitSummary{
			{ID: "abcdef1234567890", Title: "Add solver", AuthorName: "Anna", CreatedAt: now},
		})
	})
	mux.HandleFunc("/api/v4/projects/42/repository/commits/abcdef1234567890", func(w http.ResponseWriter, r *http.Request) {
		var detail commitDetail
		detail.ID = "abcdef1234567890"
		detail.Stats.Additions = 120
		detail.Stats.Deletions = 8
		json.NewEncoder(w).Encode(detail)
	})
	mux.HandleFunc("/api/v4/projects/42/repository/commits/abcdef1234567890/diff", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]diffEntry{
			{NewPath: "solver.go", NewFile: true},
			{NewPath: "main.go"},
		})
	})

	client, _ := newTestClient(t, mux)

	commits, err := client.CollectRecentCommits(context.Background(), 42, now.AddDate(0, 0, -7), now)
	require.NoError(t, err)
	require.Len(t, commits, 1)

	commit := commits[0]
	assert.Equal(t, "abcdef12", commit.Short)
	assert.Equal(t, "Add solver", commit.Title)
	assert.Equal(t, 120, commit.Additions)
	assert.Equal(t, []string{"feature", "main"}, commit.Branches)
	assert.Equal(t, []string{"solver.go (new)", "main.go"}, commit.Files)
}

func TestCollectRecentCommitsSkipsBrokenBranch(t *testing.T) {
	now := time.Now().UTC()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/42/repository/branches", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Branch{{Name: "broken"}})
	})
	mux.HandleFunc("/api/v4/projects/42/repository/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, _ := newTestClient(t, mux)

	commits, err := client.CollectRecentCommits(context.Background(), 42, now.AddDate(0, 0, -7), now)
	require.NoError(t, err)
	assert.Empty(t, commits)
}
