// Package gitlab is a minimal GitLab REST API client covering what the
// weekly reporter needs: project lookup, branches, commits and diffs.
package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/httpclient"
	"github.com/d-krupke/thesis-manager/pkg/metrics"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

const perPage = 100

// Client talks to a GitLab instance with a private token
type Client struct {
	http    *httpclient.Client
	baseURL string
	token   string
	logger  ectologger.Logger
}

// NewClient creates a GitLab client for the instance at baseURL
func NewClient(http *httpclient.Client, baseURL, token string, logger ectologger.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

// Project is a GitLab project
type Project struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
	DefaultBranch     string `json:"default_branch"`
	WebURL            string `json:"web_url"`
}

// Branch is a GitLab repository branch
type Branch struct {
	Name string `json:"name"`
}

// Commit is a deduplicated commit with the branches it appears on
type Commit struct {
	SHA       string
	Short     string
	Title     string
	Author    string
	Email     string
	Date      time.Time
	Additions int
	Deletions int
	Files     []string
	Branches  []string
}

type commitSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type commitDetail struct {
	commitSummary
	Stats struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
	} `json:"stats"`
}

type diffEntry struct {
	NewPath     string `json:"new_path"`
	OldPath     string `json:"old_path"`
	NewFile     bool   `json:"new_file"`
	RenamedFile bool   `json:"renamed_file"`
	DeletedFile bool   `json:"deleted_file"`
}

var sshURLPattern = regexp.MustCompile(`^git@[^:]+:(.+?)(?:\.git)?$`)

// ExtractProjectPath extracts the project path from a repository URL.
// Both HTTPS and SSH formats are supported; an empty string means the URL
// could not be parsed.
func ExtractProjectPath(repoURL string) string {
	if repoURL == "" {
		return ""
	}

	if strings.HasPrefix(repoURL, "git@") {
		if m := sshURLPattern.FindStringSubmatch(repoURL); m != nil {
			return m[1]
		}
		return ""
	}

	parsed, err := url.Parse(repoURL)
	if err != nil || parsed.Path == "" {
		return ""
	}

	path := strings.TrimLeft(parsed.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	return path
}

func (c *Client) headers() map[string]string {
	return map[string]string{"PRIVATE-TOKEN": c.token}
}

func (c *Client) get(ctx context.Context, operation, path string, dest any) (int, error) {
	start := time.Now()
	resp, err := c.http.Get(ctx, c.baseURL+"/api/v4"+path, c.headers())
	metrics.GitLabRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}
	if !resp.IsSuccess() {
		return resp.StatusCode, fmt.Errorf("gitlab returned status %d for %s", resp.StatusCode, path)
	}
	return resp.StatusCode, resp.Decode(dest)
}

// GetProject resolves a project path. A nil project without error means the
// project does not exist or is not accessible.
func (c *Client) GetProject(ctx context.Context, projectPath string) (*Project, error) {
	ctx, span := tracing.StartSpan(ctx, "gitlab.Client.GetProject")
	defer span.End()

	var project Project
	status, err := c.get(ctx, "get_project", "/projects/"+url.PathEscape(projectPath), &project)
	if err != nil {
		if status == 404 || status == 403 {
			c.logger.WithContext(ctx).WithFields(map[string]any{"project": projectPath}).Warn("GitLab project not accessible")
			return nil, nil
		}
		return nil, err
	}

	return &project, nil
}

// ListBranches retrieves all branches of a project
func (c *Client) ListBranches(ctx context.Context, projectID int) ([]Branch, error) {
	ctx, span := tracing.StartSpan(ctx, "gitlab.Client.ListBranches")
	defer span.End()

	var branches []Branch
	for page := 1; ; page++ {
		path := fmt.Sprintf("/projects/%d/repository/branches?per_page=%d&page=%d", projectID, perPage, page)
		var chunk []Branch
		if _, err := c.get(ctx, "list_branches", path, &chunk); err != nil {
			return nil, err
		}
		branches = append(branches, chunk...)
		if len(chunk) < perPage {
			return branches, nil
		}
	}
}

// CollectRecentCommits collects the commits of all branches within the time
// range, deduplicated by SHA and sorted newest first. A branch that cannot
// be fetched is skipped with a warning.
func (c *Client) CollectRecentCommits(ctx context.Context, projectID int, since, until time.Time) ([]Commit, error) {
	ctx, span := tracing.StartSpan(ctx, "gitlab.Client.CollectRecentCommits")
	defer span.End()

	branches, err := c.ListBranches(ctx, projectID)
	if err != nil {
		return nil, err
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"branches": len(branches),
		"since":    since.Format("2006-01-02"),
		"until":    until.Format("2006-01-02"),
	}).Info("Scanning branches for commits")

	seen := map[string]*Commit{}
	for _, branch := range branches {
		summaries, err := c.listBranchCommits(ctx, projectID, branch.Name, since, until)
		if err != nil {
			c.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"branch": branch.Name}).Warn("Could not fetch commits from branch")
			continue
		}

		for _, summary := range summaries {
			if existing, ok := seen[summary.ID]; ok {
				existing.Branches = append(existing.Branches, branch.Name)
				continue
			}

			commit, err := c.fetchCommit(ctx, projectID, summary)
			if err != nil {
				c.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sha": summary.ID[:8]}).Warn("Could not fetch commit details")
				continue
			}
			commit.Branches = []string{branch.Name}
			seen[summary.ID] = commit
		}
	}

	commits := make([]Commit, 0, len(seen))
	for _, commit := range seen {
		sort.Strings(commit.Branches)
		commits = append(commits, *commit)
	}
	sort.Slice(commits, func(i, j int) bool {
		return commits[i].Date.After(commits[j].Date)
	})

	c.logger.WithContext(ctx).WithFields(map[string]any{"commits": len(commits)}).Info("Found unique commits")
	return commits, nil
}

func (c *Client) listBranchCommits(ctx context.Context, projectID int, branch string, since, until time.Time) ([]commitSummary, error) {
	var summaries []commitSummary
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("ref_name", branch)
		query.Set("since", since.UTC().Format(time.RFC3339))
		query.Set("until", until.UTC().Format(time.RFC3339))
		query.Set("per_page", strconv.Itoa(perPage))
		query.Set("page", strconv.Itoa(page))

		path := fmt.Sprintf("/projects/%d/repository/commits?%s", projectID, query.Encode())
		var chunk []commitSummary
		if _, err := c.get(ctx, "list_commits", path, &chunk); err != nil {
			return nil, err
		}
		summaries = append(summaries, chunk...)
		if len(chunk) < perPage {
			return summaries, nil
		}
	}
}

func (c *Client) fetchCommit(ctx context.Context, projectID int, summary commitSummary) (*Commit, error) {
	var detail commitDetail
	path := fmt.Sprintf("/projects/%d/repository/commits/%s", projectID, summary.ID)
	if _, err := c.get(ctx, "get_commit", path, &detail); err != nil {
		return nil, err
	}

	var diffs []diffEntry
	if _, err := c.get(ctx, "get_diff", path+"/diff", &diffs); err != nil {
		return nil, err
	}

	return &Commit{
		SHA:       summary.ID,
		Short:     summary.ID[:8],
		Title:     summary.Title,
		Author:    summary.AuthorName,
		Email:     summary.AuthorEmail,
		Date:      summary.CreatedAt,
		Additions: detail.Stats.Additions,
		Deletions: detail.Stats.Deletions,
		Files:     describeDiffs(diffs),
	}, nil
}

func describeDiffs(diffs []diffEntry) []string {
	files := make([]string, 0, len(diffs))
	for _, d := range diffs {
		var flags []string
		if d.NewFile {
			flags = append(flags, "new")
		}
		if d.RenamedFile {
			flags = append(flags, fmt.Sprintf("renamed from %s", d.OldPath))
		}
		if d.DeletedFile {
			flags = append(flags, "deleted")
		}

		label := d.NewPath
		if label == "" {
			label = d.OldPath
		}
		if len(flags) > 0 {
			label = fmt.Sprintf("%s (%s)", label, strings.Join(flags, ", "))
		}

		files = append(files, label)
	}
	return files
}
