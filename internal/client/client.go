package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/GreedyKomodoDragon/Kontroler/pkg/models"
	"github.com/sirupsen/logrus"
)

// CookieName is the session cookie the backend authenticates with
const CookieName = "jwt-kontroler"

// Client talks to the Kontroler backend on behalf of a signed-in user
type Client interface {
	CreateDag(ctx context.Context, form models.DagFormObj) (string, error)
	GetDagNames(ctx context.Context, term string) ([]string, error)
	GetDagParameters(ctx context.Context, name string) ([]models.Parameter, error)
	GetDags(ctx context.Context, page int) ([]models.Dag, error)
	GetDagRuns(ctx context.Context, page int) ([]models.DagRunMeta, error)
	GetDagRunAll(ctx context.Context, runID int) (models.DagRunAll, error)
	GetTaskRunDetails(ctx context.Context, runID, taskID int) (models.TaskRunDetails, error)
	GetTaskDetails(ctx context.Context, taskID int) (models.TaskDetails, error)
	GetDashboardStats(ctx context.Context) (models.DashboardStats, error)
	CreateDagRun(ctx context.Context, form models.DagRunForm) error
	DeleteDag(ctx context.Context, namespace, name string) error
	CheckAuth(ctx context.Context) (models.AuthCheck, error)
}

type client struct {
	httpclient *http.Client
	api        string
	auth       string
	logger     *logrus.Logger
}

// Option configures a Client
type Option func(*client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpclient = hc
	}
}

// WithAuthURL points session checks at a separate auth server
func WithAuthURL(authURL string) Option {
	return func(c *client) {
		c.auth = strings.TrimSuffix(authURL, "/")
	}
}

// WithLogger sets the logger failed calls are reported to
func WithLogger(logger *logrus.Logger) Option {
	return func(c *client) {
		c.logger = logger
	}
}

// NewClient creates a backend client rooted at apiURL
func NewClient(apiURL string, opts ...Option) (Client, error) {
	if _, err := url.ParseRequestURI(apiURL); err != nil {
		return nil, fmt.Errorf("invalid backend URL %s: %w", apiURL, err)
	}

	c := &client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(apiURL, "/"),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.auth == "" {
		c.auth = c.api
	}

	return c, nil
}

type tokenKey struct{}

// WithToken attaches the caller's session token to ctx. Calls made with the
// returned context forward it as the backend cookie.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the session token carried by ctx
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// build URL with path segments, escaping each one
func (c *client) apipath(root string, path ...string) string {
	escaped := make([]string, 0, len(path)+1)
	escaped = append(escaped, root)
	for _, p := range path {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.Join(escaped, "/")
}

// call performs one request and decodes a 2xx JSON body into out, which may
// be nil. Any other outcome is returned as an *APIError.
func (c *client) call(ctx context.Context, method, target string, body, out any, messages MessageFor) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := TokenFrom(ctx); ok {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		apiErr := networkError(messages, err)
		c.report(method, target, apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		apiErr := statusError(messages, resp.StatusCode, data)
		c.report(method, target, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unexpected response body (status code = %d): %w", resp.StatusCode, err)
	}
	return nil
}

func (c *client) report(method, target string, err *APIError) {
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    target,
		"status": err.Status,
	}).WithError(err).Warn("backend call failed")
}
