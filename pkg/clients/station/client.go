// Package station is a Go client for the station REST API, with a dashboard
// loader that aggregates the records locally.
package station

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/service/auth"
)

// Client talks to the station API. It keeps the session token after Login.
type Client struct {
	httpClient *resty.Client

	mu    sync.RWMutex
	token string
}

// NewClient builds a client for the API rooted at baseURL (e.g. http://host:8080).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/") + "/api").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{httpClient: restyClient}
}

type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// SetToken installs a previously issued session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login exchanges credentials for a session token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (auth.Token, error) {
	var token auth.Token
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&token).
		SetError(&apiError{}).
		Post("/auth/login")
	if err := check(resp, err, "login"); err != nil {
		return auth.Token{}, err
	}

	c.SetToken(token.Token)
	return token, nil
}

// ListSales lists sales matching the filter params.
func (c *Client) ListSales(ctx context.Context, params map[string]string) ([]models.Sale, error) {
	return List[models.Sale](ctx, c, models.ResourceSales, params)
}

// ListInventory lists inventory items matching the filter params.
func (c *Client) ListInventory(ctx context.Context, params map[string]string) ([]models.InventoryItem, error) {
	return List[models.InventoryItem](ctx, c, models.ResourceInventory, params)
}

// ListEmployees lists employees matching the filter params.
func (c *Client) ListEmployees(ctx context.Context, params map[string]string) ([]models.Employee, error) {
	return List[models.Employee](ctx, c, models.ResourceEmployees, params)
}

// ListExpenses lists expenses matching the filter params.
func (c *Client) ListExpenses(ctx context.Context, params map[string]string) ([]models.Expense, error) {
	return List[models.Expense](ctx, c, models.ResourceExpenses, params)
}

// Dashboard fetches the server-side dashboard for a named range or explicit dates.
func (c *Client) Dashboard(ctx context.Context, rangeName, start, end string) (models.DashboardReport, error) {
	params := map[string]string{}
	for k, v := range map[string]string{"range": rangeName, "start": start, "end": end} {
		if v != "" {
			params[k] = v
		}
	}

	var report models.DashboardReport
	resp, err := c.request(ctx).
		SetQueryParams(params).
		SetResult(&report).
		Get("/reports/dashboard")
	if err := check(resp, err, "dashboard"); err != nil {
		return models.DashboardReport{}, err
	}
	return report, nil
}

// List fetches the records of one resource.
func List[T any](ctx context.Context, c *Client, resource models.Resource, params map[string]string) ([]T, error) {
	var docs []T
	resp, err := c.request(ctx).
		SetQueryParams(params).
		SetResult(&docs).
		Get("/" + string(resource))
	if err := check(resp, err, "list "+string(resource)); err != nil {
		return nil, err
	}
	return docs, nil
}

// Create adds a record and returns it as stored.
func Create[T any](ctx context.Context, c *Client, resource models.Resource, doc T) (T, error) {
	var created T
	resp, err := c.request(ctx).
		SetBody(doc).
		SetResult(&created).
		Post("/" + string(resource))
	if err := check(resp, err, "create "+string(resource)); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update replaces the record with the given id.
func Update[T any](ctx context.Context, c *Client, resource models.Resource, id string, doc T) (T, error) {
	var updated T
	resp, err := c.request(ctx).
		SetBody(doc).
		SetResult(&updated).
		SetPathParam("id", id).
		Put("/" + string(resource) + "/{id}")
	if err := check(resp, err, "update "+string(resource)); err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

// Delete removes the record with the given id.
func Delete(ctx context.Context, c *Client, resource models.Resource, id string) error {
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		Delete("/" + string(resource) + "/{id}")
	return check(resp, err, "delete "+string(resource))
}

func (c *Client) request(ctx context.Context) *resty.Request {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	req := c.httpClient.R().SetContext(ctx).SetError(&apiError{})
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// check maps transport failures and API error statuses to errors. Statuses
// with a domain meaning wrap the matching models sentinel.
func check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}

	msg := http.StatusText(resp.StatusCode())
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Error != "" {
		msg = apiErr.Error
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %s: %w", op, msg, models.ErrValidation)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %s: %w", op, msg, models.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %s: %w", op, msg, models.ErrNotFound)
	default:
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), msg)
	}
}
