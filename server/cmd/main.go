package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabzim/slotsync/server/calendarsync"
	"github.com/gabzim/slotsync/server/gcal"
	"github.com/gabzim/slotsync/server/gsheets"
	"github.com/gabzim/slotsync/server/services/events"
	"github.com/gabzim/slotsync/server/services/sheets"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	gsheetsapi "google.golang.org/api/sheets/v4"
)

func newLogger(dev bool) *zap.SugaredLogger {
	var log *zap.Logger
	if dev {
		log, _ = zap.NewDevelopment()
	} else {
		log, _ = zap.NewProduction()
	}
	return log.Sugar()
}

func main() {
	cfg, err := getServerConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
	logger := newLogger(cfg.Dev)
	defer logger.Sync()

	ctx := context.Background()
	registry, err := cfg.registry()
	if err != nil {
		logger.Fatalf("error loading targets: %v", err)
	}

	// init google clients, shared by every request
	creds, err := gcal.LoadCredentials(ctx, cfg.CredentialsPath, calendar.CalendarScope, gsheetsapi.SpreadsheetsScope)
	if err != nil {
		logger.Fatalf("error loading google credentials: %v", err)
	}
	calClient, err := gcal.NewClient(ctx, logger, option.WithCredentials(creds))
	if err != nil {
		logger.Fatalf("error creating calendar client: %v", err)
	}

	// init services
	writer, err := calendarsync.NewWriter(logger, calClient, nil, calendarsync.Config{})
	if err != nil {
		logger.Fatalf("error creating writer: %v", err)
	}

	// init api
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Infow("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "requestId", v.RequestID)
			return nil
		},
	}))

	eventsCtrl := events.NewController(writer, registry, logger)
	e.GET("/sync", eventsCtrl.Status)
	e.POST("/sync", eventsCtrl.Sync)
	e.GET("/catalog", eventsCtrl.Catalog)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if cfg.SpreadsheetID != "" {
		sheetClient, err := gsheets.NewClient(ctx, logger, cfg.SpreadsheetID, option.WithCredentials(creds))
		if err != nil {
			logger.Fatalf("error creating sheets client: %v", err)
		}
		sheetWriter, err := calendarsync.NewWriter(logger, calClient, sheetClient, calendarsync.Config{WithSheetSync: true})
		if err != nil {
			logger.Fatalf("error creating sheet writer: %v", err)
		}
		sheetSyncCtrl := events.NewController(sheetWriter, registry, logger)
		sheetsCtrl := sheets.NewController(sheetClient, registry, logger)
		e.GET("/sheet-sync", sheetSyncCtrl.Status)
		e.POST("/sheet-sync", sheetSyncCtrl.Sync)
		e.GET("/sheets", sheetsCtrl.TabNames)
		e.GET("/sheets/:name/events", sheetsCtrl.TabEvents)
		e.POST("/sheets/form", sheetsCtrl.AppendForm)
	}

	go func() {
		logger.Infof("Listening in %v...", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Error attaching to port %v: %v", cfg.Port, err)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-interrupt
	logger.Info("interrupt received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("error shutting down: %v", err)
	}
}
