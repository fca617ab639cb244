package di

import (
	"fmt"

	"go.uber.org/zap"

	ginhandler "phoenix-web/internal/adapter/gin/handler"
	"phoenix-web/internal/config"
	"phoenix-web/internal/upstream"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Phoenix    upstream.API
	GinHandler *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	phoenix := upstream.NewClient(cfg.Phoenix, l)
	ginHandler := ginhandler.NewUserHandler(phoenix, l)

	return &Container{
		Config:     cfg,
		Logger:     l,
		Phoenix:    phoenix,
		GinHandler: ginHandler,
	}, nil
}
