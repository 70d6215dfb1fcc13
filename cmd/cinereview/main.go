package main

import (
	"os"

	"github.com/emzola/cinereview/clients"
	"github.com/emzola/cinereview/config"
	"github.com/emzola/cinereview/handler"
	"github.com/emzola/cinereview/internal/jsonlog"
	"github.com/emzola/cinereview/repository"
	"github.com/emzola/cinereview/service"
	"github.com/jellydator/ttlcache/v3"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	cache   *ttlcache.Cache[string, struct{}]
	handler *handler.Handler
}

// @title  Cinereview API
// @version 1.0.0
// @description Backend-for-frontend of the Cinereview movie and TV review app.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Initialize configuration
	cfg, err := config.Decode()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	logger = jsonlog.New(os.Stdout, jsonlog.ParseLevel(cfg.Server.LogLevel))

	// Outbound clients
	tmdb := clients.NewTMDB(clients.NewHTTPClient(httpClientTimeout), cfg.TMDB.BaseURL, cfg.TMDB.APIKey)
	backend := clients.NewHTTPClient(httpClientTimeout)

	// In-flight guard for mutating requests
	cache := ttlcache.New(ttlcache.WithTTL[string, struct{}](cfg.Guard.TTL))
	go cache.Start()

	// Application layers
	repo := repository.New(backend, cfg.Backend.BaseURL)
	service := service.New(cfg, logger, tmdb, repo)
	handler := handler.New(cfg, logger, cache, service)

	app := &app{
		config:  cfg,
		cache:   cache,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
