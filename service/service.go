package service

import (
	"context"
	"encoding/json"

	"github.com/emzola/cinereview/config"
	"github.com/emzola/cinereview/data"
	"github.com/emzola/cinereview/internal/jsonlog"
	"github.com/emzola/cinereview/repository"
)

type Service interface {
	search
	media
	reviews
	comments
	favorites
	users
}

// catalog is the part of the TMDB client the service depends on.
type catalog interface {
	SearchMulti(ctx context.Context, query, language string) (json.RawMessage, error)
	Detail(ctx context.Context, mediaType data.MediaType, mediaID data.MediaID, language string) (data.MediaDetail, error)
}

// service defines the service layer.
type service struct {
	config  config.Config
	logger  *jsonlog.Logger
	catalog catalog
	repo    repository.Repository
}

// New creates a new instance of Service.
func New(cfg config.Config, logger *jsonlog.Logger, catalog catalog, repo repository.Repository) *service {
	return &service{
		config:  cfg,
		logger:  logger,
		catalog: catalog,
		repo:    repo,
	}
}
