package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/ocr-review/api/handlers"
	"github.com/feichai0017/ocr-review/api/middleware"
	"github.com/feichai0017/ocr-review/api/routes"
	"github.com/feichai0017/ocr-review/config"
	"github.com/feichai0017/ocr-review/internal/document"
	"github.com/feichai0017/ocr-review/internal/review"
	"github.com/feichai0017/ocr-review/internal/session"
	"github.com/feichai0017/ocr-review/internal/web"
	"github.com/feichai0017/ocr-review/pkg/logger"
	"github.com/feichai0017/ocr-review/pkg/ocrclient"
)

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		panic(err)
	}

	// init logger
	outputs := []string{"stdout"}
	if cfg.Log.File != "" {
		outputs = append(outputs, cfg.Log.File)
	}
	log, err := logger.NewLogger(
		logger.WithLevel(cfg.Log.Level),
		logger.WithEncoding(cfg.Log.Encoding),
		logger.WithOutputPaths(outputs),
		logger.WithInitialFields(map[string]interface{}{"service": "ocr-review"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	client := ocrclient.NewClient(ocrclient.Config{
		BaseURL: cfg.OCR.BaseURL,
		Timeout: cfg.OCR.RequestTimeout,
	}, log)
	sessions := session.NewManager(func() *review.Panel {
		return review.NewPanel(client, log)
	}, log)

	tmpl, err := web.LoadTemplates()
	if err != nil {
		log.Fatal("Failed to load templates", logger.Error(err))
	}

	h := handlers.NewHandlers(document.NewInspector(log), log)
	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxMultipartMemory
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.SetupRoutes(r, h, sessions, cfg.Server.AllowOrigins)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweepSessions(ctx, sessions, cfg.Server.SessionTTL)

	go func() {
		log.Info("Server starting",
			logger.String("addr", cfg.Server.Addr),
			logger.String("ocr_service", cfg.OCR.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}

func sweepSessions(ctx context.Context, sessions *session.Manager, ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sessions.CleanupOldSessions(ttl)
		case <-ctx.Done():
			return
		}
	}
}
