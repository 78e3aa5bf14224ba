// Package client provides an HTTP client for the emprende-tacna JSON API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evcraddock/emprende-tacna/internal/app"
	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/geo"
	"github.com/evcraddock/emprende-tacna/internal/web"
)

// Client is an HTTP client for the directory API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListBusinesses returns the businesses of one category, or all of them
// for business.CategoryAll.
func (c *Client) ListBusinesses(category business.Category) ([]*business.Business, error) {
	path := "/api/businesses"
	if category != "" && category != business.CategoryAll {
		path += "?category=" + url.QueryEscape(string(category))
	}

	var resp web.ListResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return resp.Businesses, nil
}

// CreateBusiness registers a business.
func (c *Client) CreateBusiness(d business.Draft) (*business.Business, app.Notification, error) {
	var resp web.CreatedResponse
	if err := c.post("/api/businesses", d, &resp); err != nil {
		return nil, app.Notification{}, err
	}
	return resp.Business, resp.Notification, nil
}

// GetBusiness returns the detail view of a business.
func (c *Client) GetBusiness(id int64) (*app.Details, error) {
	var d app.Details
	if err := c.get(fmt.Sprintf("/api/businesses/%d", id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// MarkVisited marks a business as visited.
func (c *Client) MarkVisited(id int64) (app.Notification, error) {
	var n app.Notification
	if err := c.post(fmt.Sprintf("/api/businesses/%d/visit", id), nil, &n); err != nil {
		return app.Notification{}, err
	}
	return n, nil
}

// Featured returns up to limit featured businesses.
func (c *Client) Featured(limit int) ([]*business.Business, error) {
	path := "/api/featured"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp web.ListResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return resp.Businesses, nil
}

// Visited returns the visited businesses.
func (c *Client) Visited() ([]*business.Business, error) {
	var resp web.ListResponse
	if err := c.get("/api/visited", &resp); err != nil {
		return nil, err
	}
	return resp.Businesses, nil
}

// Stats returns the directory counters.
func (c *Client) Stats() (business.Stats, error) {
	var s business.Stats
	err := c.get("/api/stats", &s)
	return s, err
}

// Categories returns the category picker entries.
func (c *Client) Categories() ([]web.CategoryOption, error) {
	var opts []web.CategoryOption
	if err := c.get("/api/categories", &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Locate reports a position, or a geolocation error, to the server map.
func (c *Client) Locate(req web.LocateRequest) (*web.LocateResponse, error) {
	var resp web.LocateResponse
	if err := c.post("/api/locate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with an optional JSON body and decodes the
// response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

// do executes an HTTP request with the auth header and turns error
// responses back into domain errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

var geoCodes = map[string]geo.ErrorCode{}

func init() {
	for _, code := range []geo.ErrorCode{geo.Unsupported, geo.PermissionDenied, geo.PositionUnavailable, geo.Timeout} {
		geoCodes[code.String()] = code
	}
}

func decodeError(status int, body []byte) error {
	var e web.ErrorBody
	if json.Unmarshal(body, &e) != nil || e.Error == "" {
		// Plain-text errors come from the auth middleware.
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(status)
		}
		return fmt.Errorf("server error (%d): %s", status, msg)
	}

	switch e.Code {
	case web.CodeValidation:
		return &business.ValidationError{Field: e.Field, Message: e.Error}
	case web.CodeNotFound:
		return fmt.Errorf("%s: %w", e.Error, business.ErrNotFound)
	case web.CodeAlreadyVisited:
		return fmt.Errorf("%s: %w", e.Error, business.ErrAlreadyVisited)
	case web.CodeUnavailable:
		return fmt.Errorf("%s: %w", e.Error, business.ErrUnavailable)
	}
	if code, ok := geoCodes[e.Code]; ok {
		return &geo.Error{Code: code}
	}
	return fmt.Errorf("%s", e.Error)
}
