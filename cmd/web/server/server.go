package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "phoenix-web/internal/adapter/gin/handler"
	ginrouter "phoenix-web/internal/adapter/gin/router"
	"phoenix-web/internal/config"
)

// TemplateGlob locates the HTML templates relative to the working directory.
const TemplateGlob = "templates/*.html"

// Setup creates and configures the HTTP server serving the web UI
func Setup(handler *ginhandler.UserHandler, cfg *config.Config, l *zap.Logger) *http.Server {
	router := ginrouter.SetupRouter(handler, cfg.App.SessionSecret, TemplateGlob, l)

	addr := ":" + cfg.App.HTTPPort
	l.Info("web server configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		// The handler may wait up to 30s on the Phoenix API; the write
		// timeout has to outlast that.
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
