package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

// apiError is returned by JSON handlers and written as {"error": message}.
type apiError struct {
	Code    int
	Message string
}

type handlerFunc func(c *gin.Context) (any, *apiError)

func resolve(h handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, apiErr := h(c)
		if apiErr != nil {
			c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func errorFor(err error) *apiError {
	if errors.Is(err, preset.ErrUnknown) {
		return &apiError{Code: http.StatusNotFound, Message: err.Error()}
	}
	return &apiError{Code: http.StatusInternalServerError, Message: err.Error()}
}

func (s *Server) listLocations(c *gin.Context) (any, *apiError) {
	return s.registry.All(), nil
}

func (s *Server) getCalendar(c *gin.Context) (any, *apiError) {
	snap, err := s.snapshot(c.Request.Context(), c.Query("location"))
	if err != nil {
		return nil, errorFor(err)
	}
	// An unavailable calendar is still a 200 with available=false.
	return snap.View(s.now()), nil
}

func (s *Server) getCountdown(c *gin.Context) (any, *apiError) {
	snap, err := s.snapshot(c.Request.Context(), c.Query("location"))
	if err != nil {
		return nil, errorFor(err)
	}
	st, ok := evaluate(snap, s.now())
	if !ok {
		return nil, &apiError{Code: http.StatusServiceUnavailable, Message: "Failed to load prayer times"}
	}
	return st.View(s.timeLayout), nil
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
