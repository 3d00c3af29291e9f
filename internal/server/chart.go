package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/countdown"
)

// chart renders Sehri and Iftar across the month as minutes after midnight.
func (s *Server) chart(c *gin.Context) {
	snap, err := s.snapshot(c.Request.Context(), c.Query("location"))
	if err != nil {
		apiErr := errorFor(err)
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	if snap.Unavailable() {
		c.String(http.StatusServiceUnavailable, "Failed to load prayer times")
		return
	}

	line := buildChart(snap)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := line.Render(c.Writer); err != nil {
		s.log.Error().Err(err).Str("preset", snap.Preset.Key).Msg("failed to render chart")
	}
}

func buildChart(snap *calendar.Snapshot) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Ramadan Sehri & Iftar",
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Sehri & Iftar · " + snap.Preset.Label,
			Subtitle: "minutes after midnight, " + snap.Preset.Timezone,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "min", Scale: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	days := make([]string, 0, len(snap.Days))
	sehri := make([]opts.LineData, 0, len(snap.Days))
	iftar := make([]opts.LineData, 0, len(snap.Days))
	for _, d := range snap.Days {
		days = append(days, strconv.Itoa(d.Index))
		sehri = append(sehri, opts.LineData{Name: d.Sehri, Value: minutes(d.Sehri)})
		iftar = append(iftar, opts.LineData{Name: d.Iftar, Value: minutes(d.Iftar)})
	}

	smooth := charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)})
	line.SetXAxis(days).
		AddSeries("Sehri", sehri, smooth).
		AddSeries("Iftar", iftar, smooth)
	return line
}

// minutes returns nil for unparseable times so the point is left out.
func minutes(raw string) any {
	h, m, err := countdown.ParseClock(raw)
	if err != nil {
		return nil
	}
	return h*60 + m
}
