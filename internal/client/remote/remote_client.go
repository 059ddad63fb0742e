package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TWRT/taskdesk/internal/client"
	"github.com/TWRT/taskdesk/internal/models"
)

const DefaultTimeout = 10 * time.Second

// Client talks to a taskdesk server over its JSON API.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

var _ client.Backend = (*Client)(nil)

func NewClient(baseUrl string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListTasks(ctx context.Context, filter *models.TaskFilter) ([]models.Task, error) {
	path := "/tasks"
	if q := filterQuery(filter); q != "" {
		path += "?" + q
	}

	var resp tasksResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		resp.Tasks = []models.Task{}
	}
	return resp.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (models.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &resp); err != nil {
		return models.Task{}, err
	}
	return resp.Task, nil
}

func (c *Client) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &resp); err != nil {
		return models.Task{}, err
	}
	return resp.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch models.UpdateTaskInput) (models.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), patch, &resp); err != nil {
		return models.Task{}, err
	}
	return resp.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ToggleComplete(ctx context.Context, id string) (models.Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/toggle", nil, &resp); err != nil {
		return models.Task{}, err
	}
	return resp.Task, nil
}

func (c *Client) GetProgress(ctx context.Context) (models.UserProgress, error) {
	var resp progressResponse
	if err := c.do(ctx, http.MethodGet, "/progress", nil, &resp); err != nil {
		return models.UserProgress{}, err
	}
	return resp.Progress, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var resp projectsResponse
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Projects == nil {
		resp.Projects = []models.Project{}
	}
	return resp.Projects, nil
}

func (c *Client) CreateProject(ctx context.Context, in models.CreateProjectInput) (models.Project, error) {
	var resp projectResponse
	if err := c.do(ctx, http.MethodPost, "/projects", in, &resp); err != nil {
		return models.Project{}, err
	}
	return resp.Project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, models.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(method, path, resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(method, path string, status int, body []byte) error {
	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, models.ErrNotFound)
	case status == http.StatusBadRequest && apiErr.Field != "":
		return &models.ValidationError{Field: apiErr.Field, Message: apiErr.Message}
	case status == http.StatusBadRequest:
		return &models.ValidationError{Field: "request", Message: apiErr.Error}
	case status == http.StatusServiceUnavailable || status == http.StatusBadGateway:
		return fmt.Errorf("%s %s: %w", method, path, models.ErrBackendUnavailable)
	case apiErr.Error != "":
		return fmt.Errorf("api error status %d: %s", status, apiErr.Error)
	default:
		return fmt.Errorf("api error status %d", status)
	}
}

func filterQuery(filter *models.TaskFilter) string {
	if filter == nil {
		return ""
	}
	q := url.Values{}
	if filter.ProjectId != nil {
		q.Set("project_id", *filter.ProjectId)
	}
	if filter.Completed != nil {
		q.Set("completed", strconv.FormatBool(*filter.Completed))
	}
	if filter.DueBefore != nil {
		q.Set("due_before", filter.DueBefore.UTC().Format(time.RFC3339Nano))
	}
	if filter.DueAfter != nil {
		q.Set("due_after", filter.DueAfter.UTC().Format(time.RFC3339Nano))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.TagId != "" {
		q.Set("tag_id", filter.TagId)
	}
	return q.Encode()
}
