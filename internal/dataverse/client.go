package dataverse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAPIVersion = "v9.2"
	defaultTimeout    = 30 * time.Second
	defaultTop        = 100

	// notesField is the custom single-line-of-text attribute on the
	// workflow entity that carries the serialized Notes document.
	notesField = "fndex_expressionnotes"

	maxAttempts = 3
)

// Config sets connection parameters for one Dataverse environment.
type Config struct {
	// BaseURL is the environment root, e.g. https://org.crm.dynamics.com.
	BaseURL string
	// APIVersion defaults to v9.2.
	APIVersion string
	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration
}

// TokenSource supplies a bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token for every request.
func StaticTokenSource(token string) TokenSource { return staticToken(token) }

type staticToken string

func (t staticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errors.New("empty static token")
	}
	return string(t), nil
}

// EnvTokenSource reads the token from an environment variable on every
// request, so a rotated token is picked up without restarting.
func EnvTokenSource(name string) TokenSource { return envToken(name) }

type envToken string

func (t envToken) Token(context.Context) (string, error) {
	v := os.Getenv(string(t))
	if v == "" {
		return "", fmt.Errorf("environment variable %s is empty", string(t))
	}
	return v, nil
}

// Workflow is the subset of a workflow record the notes commands need.
type Workflow struct {
	ID       uuid.UUID `json:"workflowid"`
	Name     string    `json:"name"`
	Category int       `json:"category"`
}

// Client talks to the Dataverse Web API.
type Client struct {
	baseURL    string
	apiVersion string
	http       *http.Client
	tokens     TokenSource
	retryBase  time.Duration
}

// NewClient builds a client from config, applying defaults for the API
// version and timeout.
func NewClient(cfg Config, tokens TokenSource) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion: cfg.APIVersion,
		http:       &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
		retryBase:  time.Second,
	}
}

// GetNotes fetches the notes document for one workflow. A missing or empty
// field yields an empty document, not an error.
func (c *Client) GetNotes(ctx context.Context, workflowID uuid.UUID) (*Notes, error) {
	path := fmt.Sprintf("workflows(%s)?$select=workflowid,name,%s", workflowID, notesField)
	var rec struct {
		WorkflowID uuid.UUID `json:"workflowid"`
		Name       string    `json:"name"`
		Notes      *string   `json:"fndex_expressionnotes"`
	}
	if err := c.get(ctx, path, &rec); err != nil {
		return nil, fmt.Errorf("get notes for %s: %w", workflowID, err)
	}
	if rec.Notes == nil || *rec.Notes == "" {
		return EmptyNotes(), nil
	}
	var notes Notes
	if err := json.Unmarshal([]byte(*rec.Notes), &notes); err != nil {
		return nil, fmt.Errorf("get notes for %s: decode field: %w", workflowID, err)
	}
	return &notes, nil
}

// PutNotes validates the document and writes it back as a single-field
// PATCH. If-Match: * requires the record to exist, so a bad workflow id
// fails instead of creating a record.
func (c *Client) PutNotes(ctx context.Context, workflowID uuid.UUID, notes *Notes) error {
	if err := notes.Validate(); err != nil {
		return fmt.Errorf("put notes for %s: %w", workflowID, err)
	}
	encoded, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("put notes for %s: encode: %w", workflowID, err)
	}
	path := fmt.Sprintf("workflows(%s)", workflowID)
	payload := map[string]string{notesField: string(encoded)}
	if err := c.patch(ctx, path, payload); err != nil {
		return fmt.Errorf("put notes for %s: %w", workflowID, err)
	}
	return nil
}

// ListWorkflows returns up to top workflow records. top <= 0 applies the
// default page size.
func (c *Client) ListWorkflows(ctx context.Context, top int) ([]Workflow, error) {
	if top <= 0 {
		top = defaultTop
	}
	path := fmt.Sprintf("workflows?$select=workflowid,name,category&$top=%d", top)
	var page struct {
		Value []Workflow `json:"value"`
	}
	if err := c.get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	return page.Value, nil
}

// PullAll fetches notes for every workflow id concurrently, bounded by the
// number of CPUs. The first failure cancels the remaining fetches.
func (c *Client) PullAll(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Notes, error) {
	var (
		mu  sync.Mutex
		out = make(map[uuid.UUID]*Notes, len(ids))
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, id := range ids {
		id := id
		eg.Go(func() error {
			notes, err := c.GetNotes(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = notes
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("pull notes: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) patch(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	headers := map[string]string{"If-Match": "*"}
	return c.do(ctx, http.MethodPatch, path, body, nil, headers)
}

// do sends one Web API request, retrying 429 and 5xx responses with
// exponential backoff. A Retry-After header overrides the computed delay.
// Other failure statuses return immediately as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any, headers map[string]string) error {
	endpoint := fmt.Sprintf("%s/api/data/%s/%s", c.baseURL, c.apiVersion, path)

	var lastErr error
	delay := c.retryBase
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("acquire token: %w", err)
		}

		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("OData-Version", "4.0")
		req.Header.Set("OData-MaxVersion", "4.0")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return fmt.Errorf("decode response: %w", err)
				}
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = decodeAPIError(resp.StatusCode, respBody)
			if ra, ok := retryAfter(resp.Header); ok {
				delay = ra
			}
		default:
			return decodeAPIError(resp.StatusCode, respBody)
		}
	}
	return fmt.Errorf("%s %s: %d attempts: %w", method, path, maxAttempts, lastErr)
}

// APIError is the OData error envelope Dataverse returns on failure.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("dataverse: %s (code %s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("dataverse: %s (status %d)", e.Message, e.Status)
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

// retryAfter parses a Retry-After seconds value. The boolean reports
// whether the header was present and well formed.
func retryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
