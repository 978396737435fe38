// Package client provides an HTTP client for the showing-hive REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
	"github.com/evcraddock/showing-hive/internal/showing"
	"github.com/evcraddock/showing-hive/internal/tour"
)

// Client is an HTTP client for the showing-hive API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// PropertyInput is the body for creating or updating a property. Nil flags
// keep the server's default or current value.
type PropertyInput struct {
	Name                       string           `json:"name"`
	Address                    string           `json:"address"`
	Seller                     property.Contact `json:"seller"`
	Agent                      property.Contact `json:"agent"`
	AutoApproveShowings        *bool            `json:"auto_approve_showings,omitempty"`
	RequiresDisclosureApproval *bool            `json:"requires_disclosure_approval,omitempty"`
}

func propertyPath(id string, rest ...string) string {
	p := "/api/properties/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

// ListProperties returns all properties.
func (c *Client) ListProperties(ctx context.Context) ([]*property.Property, error) {
	var props []*property.Property
	if err := c.get(ctx, "/api/properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProperty returns a property by ID.
func (c *Client) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	var p property.Property
	if err := c.get(ctx, propertyPath(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AddProperty creates a property.
func (c *Client) AddProperty(ctx context.Context, in PropertyInput) (*property.Property, error) {
	var p property.Property
	if err := c.send(ctx, "POST", "/api/properties", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProperty replaces a property's details.
func (c *Client) UpdateProperty(ctx context.Context, id string, in PropertyInput) (*property.Property, error) {
	var p property.Property
	if err := c.send(ctx, "PUT", propertyPath(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Dashboard returns the seller's view of a property.
func (c *Client) Dashboard(ctx context.Context, id string) (*showing.Dashboard, error) {
	var d showing.Dashboard
	if err := c.get(ctx, propertyPath(id, "dashboard"), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Activity returns a property's events, newest first. limit <= 0 returns all.
func (c *Client) Activity(ctx context.Context, id string, limit int) ([]*activity.Event, error) {
	path := propertyPath(id, "activity")
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var events []*activity.Event
	if err := c.get(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// AddBlock marks [start, end) unavailable. Times are ISO-8601.
func (c *Client) AddBlock(ctx context.Context, propertyID, start, end string) (*schedule.BlockedRange, error) {
	body := map[string]string{"start": start, "end": end}
	var b schedule.BlockedRange
	if err := c.send(ctx, "POST", propertyPath(propertyID, "blocks"), body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBlocks returns a property's blocked ranges.
func (c *Client) ListBlocks(ctx context.Context, propertyID string) ([]schedule.BlockedRange, error) {
	var blocks []schedule.BlockedRange
	if err := c.get(ctx, propertyPath(propertyID, "blocks"), &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// RequestShowing books a showing starting at start (ISO-8601).
func (c *Client) RequestShowing(ctx context.Context, propertyID, start string, client schedule.Person) (*schedule.Showing, error) {
	body := map[string]interface{}{"start": start, "client": client}
	var sh schedule.Showing
	if err := c.send(ctx, "POST", propertyPath(propertyID, "showings"), body, &sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

// ListShowings returns a property's showings ordered by start.
func (c *Client) ListShowings(ctx context.Context, propertyID string) ([]*schedule.Showing, error) {
	var list []*schedule.Showing
	if err := c.get(ctx, propertyPath(propertyID, "showings"), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetShowing returns a showing by ID.
func (c *Client) GetShowing(ctx context.Context, id string) (*schedule.Showing, error) {
	var sh schedule.Showing
	if err := c.get(ctx, "/api/showings/"+url.PathEscape(id), &sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

// ApproveShowing approves a pending showing.
func (c *Client) ApproveShowing(ctx context.Context, id string) (*schedule.Showing, error) {
	return c.showingAction(ctx, id, "approve", nil)
}

// DeclineShowing declines a pending showing.
func (c *Client) DeclineShowing(ctx context.Context, id string) (*schedule.Showing, error) {
	return c.showingAction(ctx, id, "decline", nil)
}

// RescheduleShowing moves a showing to start (ISO-8601).
func (c *Client) RescheduleShowing(ctx context.Context, id, start string) (*schedule.Showing, error) {
	return c.showingAction(ctx, id, "reschedule", map[string]string{"start": start})
}

func (c *Client) showingAction(ctx context.Context, id, action string, body interface{}) (*schedule.Showing, error) {
	var sh schedule.Showing
	if err := c.send(ctx, "POST", "/api/showings/"+url.PathEscape(id)+"/"+action, body, &sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

// LockboxCode returns the access code of an approved showing.
func (c *Client) LockboxCode(ctx context.Context, id string) (*showing.Credential, error) {
	var cred showing.Credential
	if err := c.get(ctx, "/api/showings/"+url.PathEscape(id)+"/lockbox", &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// ShowingFeedback rates a showing from 1 to 5.
func (c *Client) ShowingFeedback(ctx context.Context, id string, rating int, comment string) (*schedule.Feedback, error) {
	return c.feedback(ctx, "/api/showings/"+url.PathEscape(id)+"/feedback", rating, comment)
}

// ListFiles returns the names of a property's stored documents.
func (c *Client) ListFiles(ctx context.Context, propertyID string) ([]string, error) {
	var names []string
	if err := c.get(ctx, propertyPath(propertyID, "files"), &names); err != nil {
		return nil, err
	}
	return names, nil
}

// UploadFile stores r as a property document named name.
func (c *Client) UploadFile(ctx context.Context, propertyID, name string, r io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, "PUT", c.baseURL+propertyPath(propertyID, "files", name), r)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	_, err = c.do(req, nil)
	return err
}

// CreatePackage bundles uploaded documents.
func (c *Client) CreatePackage(ctx context.Context, propertyID, name string, filenames []string, isPublic bool) (*schedule.Package, error) {
	body := map[string]interface{}{"name": name, "filenames": filenames, "is_public": isPublic}
	var pkg schedule.Package
	if err := c.send(ctx, "POST", propertyPath(propertyID, "packages"), body, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ListPackages returns a property's packages.
func (c *Client) ListPackages(ctx context.Context, propertyID string) ([]*schedule.Package, error) {
	var pkgs []*schedule.Package
	if err := c.get(ctx, propertyPath(propertyID, "packages"), &pkgs); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// RequestShare asks for access to a package on behalf of a buyer.
func (c *Client) RequestShare(ctx context.Context, propertyID, packageID string, buyer schedule.Person) (*schedule.Share, error) {
	body := map[string]interface{}{"package_id": packageID, "buyer": buyer}
	var sh schedule.Share
	if err := c.send(ctx, "POST", propertyPath(propertyID, "shares"), body, &sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

// ListShares returns a property's shares.
func (c *Client) ListShares(ctx context.Context, propertyID string) ([]*schedule.Share, error) {
	var shares []*schedule.Share
	if err := c.get(ctx, propertyPath(propertyID, "shares"), &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// GetShare returns a share by ID.
func (c *Client) GetShare(ctx context.Context, id string) (*schedule.Share, error) {
	var sh schedule.Share
	if err := c.get(ctx, "/api/shares/"+url.PathEscape(id), &sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

// ApproveShare grants the buyer access to the package.
func (c *Client) ApproveShare(ctx context.Context, id string) (*schedule.Share, error) {
	var sh schedule.Share
	if err := c.send(ctx, "POST", "/api/shares/"+url.PathEscape(id)+"/approve", nil, &sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

// DownloadFile returns one file of an approved share.
func (c *Client) DownloadFile(ctx context.Context, shareID, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/api/shares/"+url.PathEscape(shareID)+"/files/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// ShareFeedback rates a disclosure package from 1 to 5.
func (c *Client) ShareFeedback(ctx context.Context, id string, rating int, comment string) (*schedule.Feedback, error) {
	return c.feedback(ctx, "/api/shares/"+url.PathEscape(id)+"/feedback", rating, comment)
}

func (c *Client) feedback(ctx context.Context, path string, rating int, comment string) (*schedule.Feedback, error) {
	body := map[string]interface{}{"rating": rating, "comment": comment}
	var fb schedule.Feedback
	if err := c.send(ctx, "POST", path, body, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// CreateTour builds an itinerary from approved showings.
func (c *Client) CreateTour(ctx context.Context, buyerName string, showingIDs []string) (*tour.Tour, error) {
	body := map[string]interface{}{"buyer_name": buyerName, "showing_ids": showingIDs}
	var t tour.Tour
	if err := c.send(ctx, "POST", "/api/tours", body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTour returns a tour by ID.
func (c *Client) GetTour(ctx context.Context, id string) (*tour.Tour, error) {
	var t tour.Tour
	if err := c.get(ctx, "/api/tours/"+url.PathEscape(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTours returns all tours.
func (c *Client) ListTours(ctx context.Context) ([]*tour.Tour, error) {
	var tours []*tour.Tour
	if err := c.get(ctx, "/api/tours", &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	_, err = c.do(req, result)
	return err
}

// send performs a request with an optional JSON body and decodes the response.
func (c *Client) send(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	_, err = c.do(req, result)
	return err
}

// do executes an HTTP request and handles errors. It returns the raw body so
// downloads can skip JSON decoding.
func (c *Client) do(req *http.Request, result interface{}) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "err", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Code = errResp.Code
		}
		return nil, apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}

	return respBody, nil
}
