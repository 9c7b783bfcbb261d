// Package employeeapi is a client for the employee service that enriches
// database rows with department, job title and salary.
package employeeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
)

// ErrNotFound is returned when the service has no employee with the given id.
var ErrNotFound = errors.New("employee not found")

// EnrichedEmployee is the detailed record served by GET /employees/{id}.
// The contract fields are nil when the employee has no active contract.
type EnrichedEmployee struct {
	ID             int64    `json:"id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	DateOfBirth    string   `json:"dateOfBirth"`
	DepartmentName *string  `json:"departmentName"`
	JobTitle       *string  `json:"jobTitle"`
	Salary         *float64 `json:"salary"`
}

// EmployeeSummary is one entry of a search page.
type EmployeeSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Page is the service's pagination envelope.
type Page[T any] struct {
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	TotalResults   int64 `json:"totalResults"`
	ResultsPerPage int   `json:"resultsPerPage"`
	NextPage       *int  `json:"nextPage"`
	PreviousPage   *int  `json:"previousPage"`
	Data           []T   `json:"data"`
}

const (
	defaultPageSize = 10
	retryBaseDelay  = 200 * time.Millisecond
	retryMaxDelay   = 2 * time.Second
)

type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries int
	logger     *slog.Logger
}

func New(baseURL string, timeout time.Duration, maxRetries int, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// GetByID fetches one employee. The service answers 400 for unknown ids as
// well as 404; both map to ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id int64) (*EnrichedEmployee, error) {
	var emp EnrichedEmployee
	if err := c.get(ctx, "/employees/"+strconv.FormatInt(id, 10), nil, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// SearchByName returns the first page of employees whose name matches term.
func (c *Client) SearchByName(ctx context.Context, term string) (*Page[EmployeeSummary], error) {
	q := url.Values{}
	q.Set("searchBy", "name")
	q.Set("searchTerm", term)
	q.Set("page", "1")
	q.Set("size", strconv.Itoa(defaultPageSize))

	var page Page[EmployeeSummary]
	if err := c.get(ctx, "/employees", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = c.do(ctx, endpoint, out)
		if err == nil || attempt >= c.maxRetries || !hrerrors.IsRetryable(err) {
			return err
		}
		backoff := hrerrors.CalculateBackoff(retryBaseDelay, attempt, retryMaxDelay)
		if c.logger != nil {
			c.logger.Warn("employee service call failed, retrying",
				"url", endpoint, "error", err, "attempt", attempt+1, "backoff", backoff)
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) do(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return hrerrors.NewPermanentError(fmt.Errorf("build request: %w", err), "request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return hrerrors.NewPermanentError(err, "cancelled")
		}
		return hrerrors.NewRetryableError(fmt.Errorf("employee service: %w", err), "network")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return hrerrors.NewRetryableError(fmt.Errorf("read response: %w", err), "network")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return ErrNotFound
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return hrerrors.NewRetryableError(
			fmt.Errorf("employee service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), "http")
	case resp.StatusCode != http.StatusOK:
		return hrerrors.NewPermanentError(
			fmt.Errorf("employee service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), "http")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return hrerrors.NewPermanentError(fmt.Errorf("decode response: %w", err), "decode")
	}
	return nil
}
