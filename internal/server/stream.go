package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/countdown"
)

func evaluate(snap *calendar.Snapshot, now time.Time) (countdown.State, bool) {
	if snap.Unavailable() {
		return countdown.State{}, false
	}
	return countdown.Evaluate(now, snap.Days, snap.Location)
}

// streamCountdown pushes a "countdown" event every tick. When the preset's
// calendar is refreshed, the ticker restarts on the new snapshot. The loop
// never fetches; a failed refresh keeps the last good snapshot ticking.
func (s *Server) streamCountdown(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Query("location")

	snap, err := s.snapshot(ctx, key)
	if err != nil {
		apiErr := errorFor(err)
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	if snap.Unavailable() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load prayer times"})
		return
	}

	// Only the newest state matters; a slow client skips ticks.
	states := make(chan countdown.State, 1)
	emit := func(st countdown.State) {
		select {
		case states <- st:
		default:
			select {
			case <-states:
			default:
			}
			select {
			case states <- st:
			default:
			}
		}
	}

	ticker := countdown.NewTicker(s.tick, s.now)
	ticker.Start(ctx, snap, emit)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st := <-states:
			c.SSEvent("countdown", st.View(s.timeLayout))
		}

		if cur := s.current(key); cur != snap && !cur.Unavailable() {
			snap = cur
			ticker.Start(ctx, snap, emit)
		}
		return true
	})
}
