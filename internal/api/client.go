package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

var (
	// ErrUpstreamStatus is returned when the API answers with a non-success
	// HTTP status or a non-200 envelope code.
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	// ErrMalformedPayload is returned when the body is not the expected shape.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// FetchCalendarByCity fetches a whole Gregorian month of prayer times for a city.
func (c *Client) FetchCalendarByCity(ctx context.Context, year, month int, q CityQuery) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendarByCity/%d/%d", c.BaseURL, year, month)

	params := url.Values{}
	params.Set("city", q.City)
	params.Set("country", q.Country)
	if q.Method >= 0 {
		params.Set("method", strconv.Itoa(q.Method))
	}
	if q.School >= 0 {
		params.Set("school", strconv.Itoa(q.School))
	}
	if q.LatitudeAdjustment >= 0 {
		params.Set("latitudeAdjustmentMethod", strconv.Itoa(q.LatitudeAdjustment))
	}
	if q.Timezone != "" {
		params.Set("timezonestring", q.Timezone)
	}

	return c.doCalendarRequest(ctx, endpoint, params)
}

func (c *Client) doCalendarRequest(ctx context.Context, endpoint string, params url.Values) (*CalendarResponse, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: API returned status %d: %s", ErrUpstreamStatus, resp.StatusCode, string(body))
	}

	var raw rawCalendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode API response: %v", ErrMalformedPayload, err)
	}

	if raw.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: API error: code=%d status=%s", ErrUpstreamStatus, raw.Code, raw.Status)
	}

	days, err := decodeDays(raw.Data)
	if err != nil {
		return nil, err
	}

	return &CalendarResponse{Code: raw.Code, Status: raw.Status, Data: days}, nil
}

// decodeDays checks that data is a JSON array of day objects.
func decodeDays(data json.RawMessage) ([]Data, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformedPayload)
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: data is not an array", ErrMalformedPayload)
	}

	var days []Data
	if err := json.Unmarshal(trimmed, &days); err != nil {
		return nil, fmt.Errorf("%w: failed to decode days: %v", ErrMalformedPayload, err)
	}
	return days, nil
}
