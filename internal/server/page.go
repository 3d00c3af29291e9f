package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-live/internal/display"
	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Presets     []preset.Preset
	Preset      preset.Preset
	Calendar    calendar.View
	Countdown   *countdown.View
	Unavailable string
}

func templateFuncs(layout string) template.FuncMap {
	return template.FuncMap{
		"clock": func(raw string) string { return countdown.FormatClockTime(raw, layout) },
	}
}

func (s *Server) index(c *gin.Context) {
	key := c.Query("location")
	snap, err := s.snapshot(c.Request.Context(), key)
	if err != nil {
		apiErr := errorFor(err)
		c.String(apiErr.Code, apiErr.Message)
		return
	}

	now := s.now()
	data := pageData{
		Presets:  s.registry.All(),
		Preset:   snap.Preset,
		Calendar: snap.View(now),
	}
	if st, ok := evaluate(snap, now); ok {
		v := st.View(s.timeLayout)
		data.Countdown = &v
	} else {
		data.Unavailable = display.UnavailableMessage
	}

	c.HTML(http.StatusOK, "index.html", data)
}
