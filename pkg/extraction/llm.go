package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/d-krupke/thesis-manager/pkg/httpclient"
	"github.com/d-krupke/thesis-manager/pkg/models"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

const extractionPrompt = `You are a data extraction assistant for a thesis management system.
Extract the thesis record from the following spreadsheet row. The columns may
have arbitrary names and may be in German or English.

Return ONLY a JSON object with this structure, no prose:
{
  "student": {"first_name": "", "last_name": "", "email": "", "student_id": ""},
  "supervisors": [{"first_name": "", "last_name": "", "email": "", "role": ""}],
  "thesis_type": "",
  "title": "",
  "phase": "",
  "date_first_contact": "",
  "date_registration": "",
  "date_deadline": "",
  "date_presentation": "",
  "description": "",
  "task_description": "",
  "warnings": []
}

Leave fields you cannot determine empty. Put anything noteworthy about data
quality into "warnings". Dates may stay in their original format.

Row:
%s`

// LLMConfig configures the extraction model
type LLMConfig struct {
	APIBase     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// LLMExtractor extracts thesis records with an OpenAI-compatible chat model
type LLMExtractor struct {
	client *httpclient.Client
	config LLMConfig
	logger ectologger.Logger
}

// NewLLMExtractor creates a new LLM-backed extractor
func NewLLMExtractor(client *httpclient.Client, config LLMConfig, logger ectologger.Logger) *LLMExtractor {
	return &LLMExtractor{
		client: client,
		config: config,
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// rawThesisInfo is the wire shape returned by the model, before normalization
type rawThesisInfo struct {
	Student struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		StudentID string `json:"student_id"`
	} `json:"student"`
	Supervisors []struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Role      string `json:"role"`
	} `json:"supervisors"`
	ThesisType       string   `json:"thesis_type"`
	Title            string   `json:"title"`
	Phase            string   `json:"phase"`
	DateFirstContact string   `json:"date_first_contact"`
	DateRegistration string   `json:"date_registration"`
	DateDeadline     string   `json:"date_deadline"`
	DatePresentation string   `json:"date_presentation"`
	Description      string   `json:"description"`
	TaskDescription  string   `json:"task_description"`
	Warnings         []string `json:"warnings"`
}

// Extract sends the row to the model and normalizes the result
func (e *LLMExtractor) Extract(ctx context.Context, row Row) (*ThesisInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "extraction.LLMExtractor.Extract")
	defer span.End()

	raw, err := e.complete(ctx, fmt.Sprintf(extractionPrompt, formatRow(row)))
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	var parsed rawThesisInfo
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("raw", raw).Warn("Extraction output is not valid JSON")
		return nil, fmt.Errorf("extraction output is not valid JSON: %w", err)
	}

	info := normalize(parsed)
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

func (e *LLMExtractor) complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       e.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: e.config.Temperature,
		MaxTokens:   e.config.MaxTokens,
	}

	headers := map[string]string{}
	if e.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + e.config.APIKey
	}

	resp, err := e.client.PostJSON(ctx, strings.TrimSuffix(e.config.APIBase, "/")+"/chat/completions", req, headers)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("llm api returned status %d: %s", resp.StatusCode, string(resp.Body))
	}

	var parsed chatResponse
	if err := resp.Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm api returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// normalize applies enum, email and date normalization to the model output
func normalize(raw rawThesisInfo) *ThesisInfo {
	info := &ThesisInfo{
		Student: StudentInfo{
			FirstName: strings.TrimSpace(raw.Student.FirstName),
			LastName:  strings.TrimSpace(raw.Student.LastName),
			Email:     sanitizeEmail(raw.Student.Email),
			StudentID: strings.TrimSpace(raw.Student.StudentID),
		},
		ThesisType:       models.NormalizeThesisType(raw.ThesisType),
		Title:            strings.TrimSpace(raw.Title),
		Phase:            models.NormalizePhase(raw.Phase),
		DateFirstContact: ParseFlexibleDate(raw.DateFirstContact),
		DateRegistration: ParseFlexibleDate(raw.DateRegistration),
		DateDeadline:     ParseFlexibleDate(raw.DateDeadline),
		DatePresentation: ParseFlexibleDate(raw.DatePresentation),
		Description:      strings.TrimSpace(raw.Description),
		TaskDescription:  strings.TrimSpace(raw.TaskDescription),
		Warnings:         raw.Warnings,
	}

	for _, sup := range raw.Supervisors {
		info.Supervisors = append(info.Supervisors, SupervisorInfo{
			FirstName: strings.TrimSpace(sup.FirstName),
			LastName:  strings.TrimSpace(sup.LastName),
			Email:     sanitizeEmail(sup.Email),
			Role:      strings.TrimSpace(sup.Role),
		})
	}

	return info
}

// sanitizeEmail drops values that are clearly not email addresses
func sanitizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	return email
}

// stripFences removes markdown code fences from model output
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// formatRow renders a row as stable key: value lines for the prompt
func formatRow(row Row) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %s\n", k, row[k])
	}
	return sb.String()
}
