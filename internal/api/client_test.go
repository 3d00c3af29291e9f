package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// sampleCalendarResponse returns a valid Al Adhan calendar API response for
// the given month, one entry per day.
func sampleCalendarResponse(month, days int) CalendarResponse {
	data := make([]Data, days)
	for i := 0; i < days; i++ {
		data[i] = Data{
			Timings: Timings{
				Imsak:   "05:02 (+06)",
				Fajr:    "05:12 (+06)",
				Sunrise: "06:27 (+06)",
				Dhuhr:   "12:14 (+06)",
				Asr:     "16:25 (+06)",
				Maghrib: "18:03 (+06)",
				Isha:    "19:18 (+06)",
			},
			Date: DateInfo{
				Gregorian: GregorianDate{
					Date: fmt.Sprintf("%02d-%02d-2026", i+1, month),
					Day:  fmt.Sprintf("%02d", i+1),
				},
				Hijri: HijriDate{
					Day:   fmt.Sprintf("%02d", i+1),
					Month: HijriMonth{Number: 9, En: "Ramaḍān"},
					Year:  "1447",
				},
			},
			Meta: Meta{
				Latitude:  23.8103,
				Longitude: 90.4125,
				Timezone:  "Asia/Dhaka",
				Method:    MethodInfo{ID: 1, Name: "University of Islamic Sciences, Karachi"},
				School:    "HANAFI",
			},
		}
	}
	return CalendarResponse{
		Code:   200,
		Status: "OK",
		Data:   data,
	}
}

func dhakaQuery() CityQuery {
	return CityQuery{
		City:               "Dhaka",
		Country:            "Bangladesh",
		Method:             1,
		School:             1,
		LatitudeAdjustment: 3,
		Timezone:           "Asia/Dhaka",
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient()
	if c == nil {
		t.Fatal("NewClient returned nil")
	}
	if c.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, defaultBaseURL)
	}
}

func TestFetchCalendarByCity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/calendarByCity/2026/2") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		checks := map[string]string{
			"city":                     "Dhaka",
			"country":                  "Bangladesh",
			"method":                   "1",
			"school":                   "1",
			"latitudeAdjustmentMethod": "3",
			"timezonestring":           "Asia/Dhaka",
		}
		for key, want := range checks {
			if got := q.Get(key); got != want {
				t.Errorf("%s = %q, want %q", key, got, want)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleCalendarResponse(2, 28))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	got, err := c.FetchCalendarByCity(context.Background(), 2026, 2, dhakaQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data) != 28 {
		t.Fatalf("got %d days, want 28", len(got.Data))
	}
	if got.Data[18].Date.Gregorian.Date != "19-02-2026" {
		t.Errorf("day 19 date = %q, want %q", got.Data[18].Date.Gregorian.Date, "19-02-2026")
	}
	if got.Data[0].Timings.Fajr != "05:12 (+06)" {
		t.Errorf("Fajr = %q, want raw value with suffix", got.Data[0].Timings.Fajr)
	}
}

func TestFetchCalendarByCity_OmitsUnsetParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, key := range []string{"method", "school", "latitudeAdjustmentMethod", "timezonestring"} {
			if q.Has(key) {
				t.Errorf("%s should not be set, got %q", key, q.Get(key))
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleCalendarResponse(3, 31))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	q := CityQuery{City: "Newark", Country: "US", Method: -1, School: -1, LatitudeAdjustment: -1}
	if _, err := c.FetchCalendarByCity(context.Background(), 2026, 3, q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchCalendarByCity_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.FetchCalendarByCity(context.Background(), 2026, 2, dhakaQuery())
	if err == nil {
		t.Fatal("expected error for HTTP 500, got nil")
	}
	if !errors.Is(err, ErrUpstreamStatus) {
		t.Errorf("error should wrap ErrUpstreamStatus, got: %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should mention 500, got: %v", err)
	}
}

func TestFetchCalendarByCity_APIErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":400,"status":"Bad Request","data":"Invalid city"}`))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.FetchCalendarByCity(context.Background(), 2026, 2, dhakaQuery())
	if !errors.Is(err, ErrUpstreamStatus) {
		t.Fatalf("expected ErrUpstreamStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should mention 400, got: %v", err)
	}
}

func TestFetchCalendarByCity_MalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing data", `{"code":200,"status":"OK"}`},
		{"null data", `{"code":200,"status":"OK","data":null}`},
		{"object data", `{"code":200,"status":"OK","data":{"timings":{}}}`},
		{"wrong element type", `{"code":200,"status":"OK","data":[1,2,3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient()
			c.BaseURL = server.URL

			_, err := c.FetchCalendarByCity(context.Background(), 2026, 2, dhakaQuery())
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestFetchCalendarByCity_EmptyArrayIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"status":"OK","data":[]}`))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	got, err := c.FetchCalendarByCity(context.Background(), 2026, 2, dhakaQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data) != 0 {
		t.Errorf("got %d days, want 0", len(got.Data))
	}
}

func TestFetchCalendarByCity_ConnectionRefused(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1" // nothing listening

	_, err := c.FetchCalendarByCity(context.Background(), 2026, 2, dhakaQuery())
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestFetchCalendarByCity_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleCalendarResponse(2, 28))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchCalendarByCity(ctx, 2026, 2, dhakaQuery())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
