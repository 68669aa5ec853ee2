package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"overcooked-storefront/storefront/internal/session"

	"github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FieldError is one entry of the "errors" array the API returns on
// validation failures.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Path     string `json:"path,omitempty"`
	Location string `json:"location,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && len(e.Errors) > 0 {
		msg = strings.Join(e.Messages(), "; ")
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Messages returns the msg of every field error in response order.
func (e *APIError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Msg)
	}
	return msgs
}

// Requester performs JSON requests against the ordering API. It makes a single
// attempt per call and adds the bearer token of the session found on the
// request context.
type Requester struct {
	baseURL string
	client  HTTPClient
	log     logrus.FieldLogger
}

func NewRequester(baseURL string, client HTTPClient, logger logrus.FieldLogger) *Requester {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Requester{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     logger,
	}
}

func (r *Requester) BaseURL() string {
	return r.baseURL
}

func (r *Requester) Get(ctx context.Context, path string, out any) error {
	return r.do(ctx, http.MethodGet, path, nil, out)
}

func (r *Requester) Post(ctx context.Context, path string, body, out any) error {
	return r.do(ctx, http.MethodPost, path, body, out)
}

func (r *Requester) url(path string) string {
	return r.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (r *Requester) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.url(path), payload)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s := session.FromContext(ctx); s.LoggedIn() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	entry := r.log.WithFields(logrus.Fields{"method": method, "path": path, "status": resp.StatusCode})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		apiErr.Method, apiErr.Path = method, path
		entry.WithError(apiErr).Debug("request rejected")
		return apiErr
	}
	entry.Debug("request done")

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return apiErr
	}

	var envelope struct {
		Errors  []FieldError `json:"errors"`
		Error   string       `json:"error"`
		Message string       `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	apiErr.Errors = envelope.Errors
	apiErr.Message = envelope.Message
	if apiErr.Message == "" {
		apiErr.Message = envelope.Error
	}
	return apiErr
}
