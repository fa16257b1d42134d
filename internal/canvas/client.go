package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/oauth2"

	"github.com/eliseohh/sagebot/internal/log"
	"github.com/eliseohh/sagebot/internal/metrics"
)

const (
	DefaultBaseURL = "https://canvas.test.edu"
	maxPages       = 100
)

type Client struct {
	BaseURL string
	PerPage int
	http    *http.Client
}

type Option func(*options)

type options struct {
	base    *http.Client
	perPage int
}

// WithHTTPClient sets the client that carries requests under the bearer transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.base = c }
}

func WithPerPage(n int) Option {
	return func(o *options) { o.perPage = n }
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	o := options{base: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, o.base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = o.base.Timeout

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		PerPage: o.perPage,
		http:    hc,
	}
}

type Course struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	CourseCode    string     `json:"course_code"`
	WorkflowState string     `json:"workflow_state"`
	StartAt       *time.Time `json:"start_at"`
	EndAt         *time.Time `json:"end_at"`
}

type Assignment struct {
	ID             int64      `json:"id"`
	CourseID       int64      `json:"course_id"`
	Name           string     `json:"name"`
	DueAt          *time.Time `json:"due_at"`
	PointsPossible float64    `json:"points_possible"`
	HTMLURL        string     `json:"html_url"`
}

// ListCourses returns the courses visible to the token owner, following pagination.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	return getList[Course](ctx, c, "courses", c.endpoint("/api/v1/courses"))
}

func (c *Client) ListAssignments(ctx context.Context, courseID int64) ([]Assignment, error) {
	return getList[Assignment](ctx, c, "assignments", c.endpoint(fmt.Sprintf("/api/v1/courses/%d/assignments", courseID)))
}

func (c *Client) endpoint(path string) string {
	u := c.BaseURL + path
	if c.PerPage > 0 {
		u += "?per_page=" + strconv.Itoa(c.PerPage)
	}
	return u
}

// Low-level paged GET. Every page must be a 200 carrying a JSON array.
// Elements that do not decode into T are skipped; they never fail the request.
func getList[T any](ctx context.Context, c *Client, name, next string) ([]T, error) {
	ll := log.GetLogger(log.CanvasModule).WithField("endpoint", name)
	out := []T{}
	for page := 0; next != ""; page++ {
		if page == maxPages {
			return nil, errors.Errorf("canvas: %s exceeded %d pages", name, maxPages)
		}
		body, link, err := c.get(ctx, name, next)
		if err != nil {
			return nil, err
		}
		var raw []json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
		for i, elem := range raw {
			var item T
			if err := json.Unmarshal(elem, &item); err != nil {
				ll.WithError(err).Warnf("skipping element %d of page %d", i, page+1)
				continue
			}
			out = append(out, item)
		}
		ll.Debugf("page %d: %d items", page+1, len(raw))

		next, err = c.sameOrigin(next, nextLink(link))
		if err != nil {
			ll.WithError(err).Warn("stopping pagination")
			next = ""
		}
	}
	return out, nil
}

// sameOrigin resolves a pagination link against the current page.
// Links off BaseURL's scheme and host are refused.
func (c *Client) sameOrigin(current, link string) (string, error) {
	if link == "" {
		return "", nil
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse base url")
	}
	cur, err := url.Parse(current)
	if err != nil {
		return "", errors.Wrap(err, "parse current url")
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", errors.Wrap(err, "parse next link")
	}
	u := cur.ResolveReference(ref)
	if !strings.EqualFold(u.Scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) {
		return "", errors.Errorf("next link %s leaves %s", redact(u.String()), base.Host)
	}
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, name, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.CanvasRequestsTotal.WithLabelValues(name, "error").Inc()
		return nil, "", errors.Wrap(err, "canvas connection failed")
	}
	defer resp.Body.Close()
	metrics.CanvasRequestsTotal.WithLabelValues(name, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: redact(rawURL)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "read body")
	}
	if !isList(body) {
		return nil, "", ErrNotList
	}
	return body, resp.Header.Get("Link"), nil
}

func isList(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}

var reNextLink = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="?next"?`)

func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		if m := reNextLink.FindStringSubmatch(part); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// Canvas echoes access_token query params in pagination links.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("access_token") {
		q.Set("access_token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
