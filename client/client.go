package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"kanban-api/domain"
)

// Client talks to the board API. Reads go out immediately; mutations are
// serialized through the queue so they reach the server in call order even
// when the caller fires them without waiting.
type Client struct {
	baseURL string
	http    *http.Client
	queue   *Queue

	mu    sync.RWMutex
	token string
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    &http.Client{Timeout: timeout},
		queue:   NewQueue(),
	}
}

// SetToken replaces the bearer token used for subsequent requests. It is safe
// to call while queued mutations are in flight.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// PendingCount reports how many mutations have not settled yet.
func (c *Client) PendingCount() int {
	return c.queue.PendingCount()
}

// Close flushes the mutation queue.
func (c *Client) Close() {
	c.queue.Close()
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Status int
	Fields map[string]string
	Msg    string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Bodies at or above this size are sent gzip-compressed. Long task
// descriptions and bulk board updates are the payloads that cross it.
const gzipBodyThreshold = 1 << 10

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	var compressed bool
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return err
		}
		if len(data) >= gzipBodyThreshold {
			var buf bytes.Buffer
			gw := gzip.NewWriter(&buf)
			if _, err := gw.Write(data); err != nil {
				return err
			}
			if err := gw.Close(); err != nil {
				return err
			}
			reader = &buf
			compressed = true
		} else {
			reader = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		if compressed {
			req.Header.Set("Content-Encoding", "gzip")
		}
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		return sonic.Unmarshal(data, out)
	}
	return nil
}

func decodeAPIError(status int, data []byte) error {
	apiErr := &APIError{Status: status}
	var body struct {
		Errors map[string]string `json:"errors"`
		Error  string            `json:"error"`
	}
	if err := sonic.Unmarshal(data, &body); err == nil {
		apiErr.Fields = body.Errors
		apiErr.Msg = body.Error
	}
	return apiErr
}

// enqueue wraps a request in a queued mutation. When out is non-nil the
// response is decoded into it before the mutation settles.
func (c *Client) enqueue(method, path string, body, out any) *Mutation {
	return c.queue.Enqueue(func(ctx context.Context) error {
		return c.do(ctx, method, path, body, out)
	})
}

type SignUpRequest struct {
	Email    string  `json:"email"`
	Password *string `json:"password,omitempty"`
}

type AuthResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// SignUp registers (or re-fetches) the account and adopts the returned token
// when present. It is a direct call, not a queued mutation: nothing else can
// usefully run before the client is authenticated.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/sign-up", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		c.SetToken(resp.Token)
	}
	return &resp, nil
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/sign-in", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		c.SetToken(resp.Token)
	}
	return &resp, nil
}

type BoardsResponse struct {
	Boards []domain.Board `json:"boards"`
}

func (c *Client) GetBoards(ctx context.Context) ([]domain.Board, error) {
	var resp BoardsResponse
	if err := c.do(ctx, http.MethodGet, "/api/boards", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Boards, nil
}

func (c *Client) GetBoard(ctx context.Context, boardID string) (*domain.Board, error) {
	var board domain.Board
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+boardID, nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

type BoardResponse struct {
	Board   domain.Board         `json:"board"`
	Columns []domain.BoardColumn `json:"columns"`
}

type CreateBoardRequest struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// CreateBoard enqueues the creation. When out is non-nil the created board
// is decoded into it before the returned mutation settles.
func (c *Client) CreateBoard(req CreateBoardRequest, out *BoardResponse) *Mutation {
	return c.enqueue(http.MethodPost, "/api/boards", req, out)
}

type UpdateBoardColumn struct {
	ID   *string `json:"id,omitempty"`
	Name string  `json:"name"`
}

type UpdateBoardRequest struct {
	Name    string              `json:"name"`
	Columns []UpdateBoardColumn `json:"columns"`
}

func (c *Client) UpdateBoard(boardID string, req UpdateBoardRequest, out *BoardResponse) *Mutation {
	return c.enqueue(http.MethodPut, "/api/boards/"+boardID, req, out)
}

func (c *Client) DeleteBoard(boardID string) *Mutation {
	return c.enqueue(http.MethodDelete, "/api/boards/"+boardID, nil, nil)
}

type ColumnsResponse struct {
	Columns []domain.BoardColumn `json:"columns"`
}

func (c *Client) GetColumns(ctx context.Context, boardID string) ([]domain.BoardColumn, error) {
	var resp ColumnsResponse
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+boardID+"/columns", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Columns, nil
}

type CreateColumnRequest struct {
	Name string `json:"name"`
}

func (c *Client) CreateColumn(boardID string, req CreateColumnRequest, out *domain.BoardColumn) *Mutation {
	return c.enqueue(http.MethodPost, "/api/boards/"+boardID+"/columns", req, out)
}

type TasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

func (c *Client) GetColumnTasks(ctx context.Context, columnID string) ([]domain.Task, error) {
	var resp TasksResponse
	if err := c.do(ctx, http.MethodGet, "/api/columns/"+columnID+"/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+taskID, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subtasks    []string `json:"subtasks"`
}

type TaskResponse struct {
	Task     domain.Task      `json:"task"`
	Subtasks []domain.Subtask `json:"subtasks"`
}

func (c *Client) CreateTask(columnID string, req CreateTaskRequest, out *TaskResponse) *Mutation {
	return c.enqueue(http.MethodPost, "/api/columns/"+columnID+"/tasks", req, out)
}

type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (c *Client) UpdateTask(taskID string, req UpdateTaskRequest, out *domain.Task) *Mutation {
	return c.enqueue(http.MethodPatch, "/api/tasks/"+taskID, req, out)
}

type MoveTaskRequest struct {
	ColumnID string `json:"columnId"`
}

func (c *Client) MoveTask(taskID string, req MoveTaskRequest, out *domain.Task) *Mutation {
	return c.enqueue(http.MethodPatch, "/api/tasks/"+taskID+"/move", req, out)
}

func (c *Client) DeleteTask(taskID string) *Mutation {
	return c.enqueue(http.MethodDelete, "/api/tasks/"+taskID, nil, nil)
}

type SubtasksResponse struct {
	Subtasks []domain.Subtask `json:"subtasks"`
}

func (c *Client) GetSubtasks(ctx context.Context, taskID string) ([]domain.Subtask, error) {
	var resp SubtasksResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+taskID+"/subtasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Subtasks, nil
}

type CreateSubtaskRequest struct {
	Description string `json:"description"`
}

func (c *Client) CreateSubtask(taskID string, req CreateSubtaskRequest, out *domain.Subtask) *Mutation {
	return c.enqueue(http.MethodPost, "/api/tasks/"+taskID+"/subtasks", req, out)
}

type UpdateSubtaskRequest struct {
	Status domain.SubtaskStatus `json:"status"`
}

func (c *Client) UpdateSubtaskStatus(subtaskID string, req UpdateSubtaskRequest, out *domain.Subtask) *Mutation {
	return c.enqueue(http.MethodPatch, "/api/subtasks/"+subtaskID, req, out)
}

func (c *Client) DeleteSubtask(subtaskID string) *Mutation {
	return c.enqueue(http.MethodDelete, "/api/subtasks/"+subtaskID, nil, nil)
}
