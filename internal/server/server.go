// Package server exposes herald's HTTP API and the status dashboard page.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pbittencourt/herald/internal/broadcast"
	"github.com/pbittencourt/herald/internal/gateway"
	"github.com/pbittencourt/herald/internal/session"
)

// Opts holds configuration for the API server.
type Opts struct {
	DB             *gorm.DB
	Gateway        gateway.Gateway
	Machine        *session.Machine
	Dispatcher     *broadcast.Dispatcher
	Port           int
	CredentialsDir string
	// Exit is called after a session reset response is written; the
	// process must restart for the bridge to re-pair. Defaults to
	// os.Exit(1) after a short delay. Injectable for tests.
	Exit func()
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts Opts) error {
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with all routes registered. Split from
// Start so tests can drive it with httptest.
func NewRouter(opts Opts) (*gin.Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("server: db is required")
	}
	if opts.Gateway == nil {
		return nil, fmt.Errorf("server: gateway is required")
	}
	if opts.Machine == nil {
		return nil, fmt.Errorf("server: session machine is required")
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("server: dispatcher is required")
	}
	if opts.Exit == nil {
		opts.Exit = func() {
			time.Sleep(time.Second)
			os.Exit(1)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, opts)
	return router, nil
}
