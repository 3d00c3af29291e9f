package server

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.log))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods:    []string{"GET", "OPTIONS", "HEAD"},
		AllowHeaders:    []string{"Origin", "Accept", "Cache-Control", "Last-Event-ID"},
		ExposeHeaders:   []string{"Content-Length", headerRequestID},
	}))

	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs(s.timeLayout)).ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.index)
	r.GET("/chart", s.chart)
	r.GET("/healthz", s.healthz)

	api := r.Group("/api")
	api.GET("/locations", resolve(s.listLocations))
	api.GET("/calendar", resolve(s.getCalendar))
	api.GET("/countdown", resolve(s.getCountdown))
	api.GET("/countdown/stream", s.streamCountdown)

	return r
}
