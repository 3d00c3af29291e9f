package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-live/internal/display"
	"github.com/smokyabdulrahman/ramadan-live/internal/geo"
	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

// upstream serves every requested month with fixed Dhaka times.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var year, month int
		if _, err := fmt.Sscanf(r.URL.Path, "/calendarByCity/%d/%d", &year, &month); err != nil {
			http.NotFound(w, r)
			return
		}

		var data []map[string]any
		first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		for d := first; d.Month() == time.Month(month); d = d.AddDate(0, 0, 1) {
			data = append(data, map[string]any{
				"timings": map[string]string{"Fajr": "05:12 (+06)", "Maghrib": "18:03 (+06)"},
				"date": map[string]any{
					"gregorian": map[string]any{"date": d.Format("02-01-2006")},
					"hijri": map[string]any{
						"day":   fmt.Sprintf("%02d", d.Day()),
						"month": map[string]any{"number": 9, "en": "Ramaḍān"},
						"year":  "1447",
					},
				},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "status": "OK", "data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// isolate points config, cache and upstream at throwaway locations.
func isolate(t *testing.T, baseURL string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("ALADHAN_BASE_URL", baseURL)
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "LISTEN_ADDR", "REDIS_ADDRESS", "REDIS_PASSWORD", "RAMADAN_LOCATION"} {
		t.Setenv(k, "")
	}
	display.SetEnabled(false)
}

// noon is 12:00 on the first day of Ramadan in Dhaka.
func noon(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)
	return time.Date(2026, 2, 19, 12, 0, 0, 0, loc)
}

func run(t *testing.T, ctx context.Context, now time.Time, args ...string) (string, error) {
	t.Helper()
	a := &app{now: func() time.Time { return now }}
	cmd := newRootCmd("test", a)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	envFile := "--env-file=" + filepath.Join(t.TempDir(), "missing.env")
	cmd.SetArgs(append([]string{envFile}, args...))

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	isolate(t, "")
	out, err := run(t, context.Background(), time.Now(), "--version")
	require.NoError(t, err)
	assert.Equal(t, "ramadan-live version test", strings.TrimSpace(out))
}

func TestCalendar_Table(t *testing.T) {
	isolate(t, upstream(t).URL)

	out, err := run(t, context.Background(), noon(t), "calendar")
	require.NoError(t, err)

	assert.Contains(t, out, "Ramadan Calendar · Dhaka, BD")
	assert.Contains(t, out, "19 February")
	assert.Contains(t, out, "18 March")
	assert.Contains(t, out, "05:12")
	assert.Contains(t, out, "18:03")
}

func TestCalendar_DefaultCommand(t *testing.T) {
	isolate(t, upstream(t).URL)

	out, err := run(t, context.Background(), noon(t), "--time-format", "12h")
	require.NoError(t, err)
	assert.Contains(t, out, "Ramadan Calendar")
	assert.Contains(t, out, "6:03 PM")
}

func TestCalendar_JSON(t *testing.T) {
	isolate(t, upstream(t).URL)

	out, err := run(t, context.Background(), noon(t), "calendar", "--json")
	require.NoError(t, err)

	var v calendar.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.True(t, v.Available)
	assert.Equal(t, "Dhaka,BD", v.Location)
	assert.Equal(t, calendar.Key("2026-02-19"), v.Today)
	require.Len(t, v.Days, 30)
	assert.Equal(t, 1, v.Days[0].Index)
	assert.Equal(t, "05:12", v.Days[0].Sehri)
	assert.Equal(t, calendar.Key("2026-03-20"), v.Days[29].Key)
}

func TestCalendar_UpstreamFailure(t *testing.T) {
	isolate(t, failingUpstream(t).URL)

	out, err := run(t, context.Background(), noon(t), "calendar")
	require.NoError(t, err, "an unavailable calendar is shown, not returned as an error")
	assert.Contains(t, out, display.UnavailableMessage)
	assert.NotContains(t, out, "05:12")
}

func TestCalendar_UpstreamFailureJSON(t *testing.T) {
	isolate(t, failingUpstream(t).URL)

	out, err := run(t, context.Background(), noon(t), "calendar", "--json")
	require.NoError(t, err)

	var v calendar.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.False(t, v.Available)
	assert.Empty(t, v.Days)
	assert.Contains(t, v.Error, "failed to fetch calendar")
}

func TestCalendar_UnknownLocation(t *testing.T) {
	isolate(t, upstream(t).URL)
	_, err := run(t, context.Background(), noon(t), "calendar", "--location", "Paris,FR")
	assert.Error(t, err)
}

func TestInvalidFlags(t *testing.T) {
	isolate(t, upstream(t).URL)

	tests := [][]string{
		{"--time-format", "25h"},
		{"--match", "weeks"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := run(t, context.Background(), noon(t), append([]string{"calendar"}, args...)...)
			assert.Error(t, err)
		})
	}
}

func TestMalformedEnvFile(t *testing.T) {
	isolate(t, upstream(t).URL)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BAD{KEY=1\n"), 0o644))

	_, err := run(t, context.Background(), noon(t), "calendar", "--env-file", path)
	assert.Error(t, err)
}

func TestCountdown_Once(t *testing.T) {
	isolate(t, upstream(t).URL)

	tests := []struct {
		format string
		want   string
	}{
		{countdown.FormatClock, "06:03:00"},
		{countdown.FormatShort, "6h 3m"},
		{countdown.FormatFull, "Day 1 · Iftar 18:03 (06:03:00)"},
		{"{{.Phase}}", "Fasting"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, context.Background(), noon(t), "countdown", "--once", "--format", tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestCountdown_JSON(t *testing.T) {
	isolate(t, upstream(t).URL)

	out, err := run(t, context.Background(), noon(t), "countdown", "--json")
	require.NoError(t, err)

	var v countdown.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, countdown.Fasting, v.Phase)
	assert.Equal(t, "Iftar", v.Label)
	assert.Equal(t, int64(6*3600+3*60), v.RemainingSeconds)
	assert.Equal(t, 1, v.Day)
	assert.True(t, v.Fasting)
}

func TestCountdown_Unavailable(t *testing.T) {
	isolate(t, failingUpstream(t).URL)

	out, err := run(t, context.Background(), noon(t), "countdown", "--once")
	require.NoError(t, err)
	assert.Contains(t, out, display.UnavailableMessage)
}

func TestCountdown_LiveRewritesLine(t *testing.T) {
	isolate(t, upstream(t).URL)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	out, err := run(t, ctx, noon(t), "countdown", "--format", "clock")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, clearLine+"06:03:00"), "output = %q", out)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestCountdown_RefreshDisabled(t *testing.T) {
	isolate(t, upstream(t).URL)

	for _, refresh := range []string{"0", "-1m"} {
		t.Run(refresh, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			out, err := run(t, ctx, noon(t), "countdown", "--format", "clock", "--refresh="+refresh)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, clearLine+"06:03:00"), "output = %q", out)
		})
	}
}

func TestLocations(t *testing.T) {
	isolate(t, "")

	out, err := run(t, context.Background(), time.Now(), "locations")
	require.NoError(t, err)
	for _, key := range preset.MustDefault().Keys() {
		assert.Contains(t, out, key)
	}

	out, err = run(t, context.Background(), time.Now(), "locations", "--json")
	require.NoError(t, err)
	var got []preset.Preset
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, len(preset.MustDefault().All()))
}

func TestLocationAuto(t *testing.T) {
	orig := detectLocation
	t.Cleanup(func() { detectLocation = orig })

	tests := []struct {
		name   string
		detect func(context.Context) (*geo.Location, error)
		want   string
	}{
		{
			name: "nearest preset",
			detect: func(context.Context) (*geo.Location, error) {
				return &geo.Location{Latitude: -37.8, Longitude: 144.9, City: "Melbourne"}, nil
			},
			want: "Melbourne,AU",
		},
		{
			name: "detection failure falls back",
			detect: func(context.Context) (*geo.Location, error) {
				return nil, errors.New("offline")
			},
			want: preset.DefaultKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, upstream(t).URL)
			detectLocation = tt.detect

			out, err := run(t, context.Background(), noon(t), "calendar", "--location", "auto", "--json")
			require.NoError(t, err)

			var v calendar.View
			require.NoError(t, json.Unmarshal([]byte(out), &v))
			assert.Equal(t, tt.want, v.Location)
		})
	}
}

func TestConfigCommands(t *testing.T) {
	isolate(t, "")
	ctx := context.Background()
	now := time.Now()

	out, err := run(t, ctx, now, "config", "path")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), filepath.Join("ramadan-live", "config.json")), out)

	_, err = run(t, ctx, now, "config", "set", "location", "Riyadh,SA")
	assert.Error(t, err, "unknown preset must be rejected")

	out, err = run(t, ctx, now, "config", "set", "location", "Texas,US")
	require.NoError(t, err)
	assert.Equal(t, "Set location = Texas,US\n", out)

	out, err = run(t, ctx, now, "config", "get", "location")
	require.NoError(t, err)
	assert.Equal(t, "Texas,US\n", out)

	out, err = run(t, ctx, now, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Texas,US")
	assert.Contains(t, out, "(not set)")

	_, err = run(t, ctx, now, "config", "reset")
	require.NoError(t, err)

	out, err = run(t, ctx, now, "config", "get", "location")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestConfig_SavedLocationUsed(t *testing.T) {
	isolate(t, upstream(t).URL)
	ctx := context.Background()

	_, err := run(t, ctx, noon(t), "config", "set", "location", "Newark,US")
	require.NoError(t, err)

	out, err := run(t, ctx, noon(t), "--json")
	require.NoError(t, err)
	var v calendar.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Newark,US", v.Location)
}
