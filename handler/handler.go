package handler

import (
	"sync"

	"github.com/emzola/cinereview/config"
	"github.com/emzola/cinereview/internal/jsonlog"
	"github.com/emzola/cinereview/service"
	"github.com/go-playground/validator/v10"
	"github.com/jellydator/ttlcache/v3"
)

// Handler defines Handler layer.
type Handler struct {
	config   config.Config
	logger   *jsonlog.Logger
	service  service.Service
	validate *validator.Validate

	// guardMu serialises check-and-set on the in-flight cache.
	guardMu sync.Mutex
	cache   *ttlcache.Cache[string, struct{}]
}

// New creates a new instance of Handler.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[string, struct{}], service service.Service) *Handler {
	return &Handler{
		config:   cfg,
		logger:   logger,
		cache:    cache,
		service:  service,
		validate: validator.New(),
	}
}

const version = "1.0.0"
