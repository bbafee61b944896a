// Package handlers provides HTTP request handlers for the hangar API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/server/cache"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app       application.Application
	cache     *cache.Cache
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(app application.Application, cache *cache.Cache, logger *zerolog.Logger, startTime time.Time) *Handlers {
	return &Handlers{
		app:       app,
		cache:     cache,
		logger:    logger,
		startTime: startTime,
	}
}

// ListResponse is the data of every list endpoint.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Count  int `json:"count"` // matches before pagination
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
