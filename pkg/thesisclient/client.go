// Package thesisclient is the REST client for the thesis manager API. The
// import, report and seed tools run against the service through it instead
// of touching the database directly.
package thesisclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/httpclient"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

// Client talks to the thesis manager REST API with token authentication
type Client struct {
	http    *httpclient.Client
	baseURL string
	token   string
	logger  ectologger.Logger
}

// NewClient creates a client for the API at baseURL. The token is sent as
// "Authorization: Token <key>" on every request.
func NewClient(http *httpclient.Client, baseURL, token string, logger ectologger.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

func (c *Client) headers() map[string]string {
	headers := map[string]string{}
	if c.token != "" {
		headers["Authorization"] = "Token " + c.token
	}
	return headers
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	resp, err := c.http.Get(ctx, c.baseURL+path, c.headers())
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)
	}
	return resp.Decode(dest)
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	resp, err := c.http.PostJSON(ctx, c.baseURL+path, body, c.headers())
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("POST %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}
	if dest == nil {
		return nil
	}
	return resp.Decode(dest)
}

// ListStudents retrieves all students
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var resp models.StudentListResponse
	if err := c.get(ctx, "/api/students?page_size=500", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ListSupervisors retrieves all supervisors
func (c *Client) ListSupervisors(ctx context.Context) ([]models.Supervisor, error) {
	var resp models.SupervisorListResponse
	if err := c.get(ctx, "/api/supervisors?page_size=500", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ListTheses retrieves all theses with their assignments
func (c *Client) ListTheses(ctx context.Context) ([]models.Thesis, error) {
	var resp models.ThesisListResponse
	if err := c.get(ctx, "/api/theses?page_size=500", &resp); err != nil {
		return nil, err
	}

	// list responses omit assignments, the duplicate matcher needs them
	for i := range resp.Items {
		full, err := c.GetThesis(ctx, resp.Items[i].ID)
		if err != nil {
			return nil, err
		}
		resp.Items[i] = *full
	}
	return resp.Items, nil
}

// ListWorkingTheses retrieves theses in the working phase
func (c *Client) ListWorkingTheses(ctx context.Context) ([]models.Thesis, error) {
	var resp models.ThesisListResponse
	if err := c.get(ctx, "/api/theses?phase=working&page_size=500", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetThesis retrieves one thesis with students, supervisors and comments
func (c *Client) GetThesis(ctx context.Context, id string) (*models.Thesis, error) {
	var thesis models.Thesis
	if err := c.get(ctx, "/api/theses/"+id, &thesis); err != nil {
		return nil, err
	}
	return &thesis, nil
}

// CreateStudent creates a student
func (c *Client) CreateStudent(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	var student models.Student
	if err := c.post(ctx, "/api/students", req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// CreateSupervisor creates a supervisor
func (c *Client) CreateSupervisor(ctx context.Context, req models.CreateSupervisorRequest) (*models.Supervisor, error) {
	var supervisor models.Supervisor
	if err := c.post(ctx, "/api/supervisors", req, &supervisor); err != nil {
		return nil, err
	}
	return &supervisor, nil
}

// CreateThesis creates a thesis
func (c *Client) CreateThesis(ctx context.Context, req models.CreateThesisRequest) (*models.Thesis, error) {
	var thesis models.Thesis
	if err := c.post(ctx, "/api/theses", req, &thesis); err != nil {
		return nil, err
	}
	return &thesis, nil
}

// AddComment adds a comment to a thesis
func (c *Client) AddComment(ctx context.Context, thesisID, text string) (*models.Comment, error) {
	var comment models.Comment
	req := models.CreateCommentRequest{Text: text}
	if err := c.post(ctx, "/api/theses/"+thesisID+"/add_comment", req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
