// Package httpapi exposes the directory and timeline services as a JSON API.
// Routing, auth tokens, and metrics live here; all domain rules stay in the
// services.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/feedline/feedline/internal/logging"
	"github.com/feedline/feedline/internal/server/config"
	"github.com/feedline/feedline/internal/server/models"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// directorySvc is the slice of services.Directory used by the handlers.
type directorySvc interface {
	CreateUser(ctx context.Context, username, email, password string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	IsFollowing(ctx context.Context, followerID int64, followeeUsername string) (bool, error)
	GetFollowers(ctx context.Context, username string, limit int) ([]models.User, error)
	AddFollower(ctx context.Context, followerUsername, followeeUsername string) error
	RemoveFollower(ctx context.Context, followerUsername, followeeUsername string) error
}

// timelineSvc is the slice of services.Timeline used by the handlers.
type timelineSvc interface {
	GetGlobalFeed(ctx context.Context, limit int) ([]*models.Message, error)
	GetUserFeed(ctx context.Context, user *models.User, limit int) ([]*models.Message, error)
	GetFollowedFeedByID(ctx context.Context, viewerID int64, limit int) ([]*models.Message, error)
	CreateMessageByID(ctx context.Context, content string, authorID int64) (*models.Message, error)
}

type Server struct {
	address         string
	logger          logging.Logger
	directory       directorySvc
	timeline        timelineSvc
	jwtSecret       []byte
	tokenValidity   time.Duration
	defaultFeedSize int
}

func NewServer(cfg *config.Config, l logging.Logger, d directorySvc, tl timelineSvc) *Server {
	return &Server{
		address:         cfg.EndpointAddrHTTP,
		logger:          l.With("module", "httpapi"),
		directory:       d,
		timeline:        tl,
		jwtSecret:       []byte(cfg.SecretKey),
		tokenValidity:   cfg.AccessTokenValidityDuration,
		defaultFeedSize: cfg.DefaultFeedSize,
	}
}

// routes wires every endpoint. The routing logic is isolated here.
func (s *Server) routes() http.Handler {
	router := mux.NewRouter()

	// user routes
	router.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/fllws/{username}", s.handleGetFollowers).Methods(http.MethodGet)
	router.HandleFunc("/fllws/{username}", s.handleFollow).Methods(http.MethodPost)
	router.HandleFunc("/fllws/{username}/{followee}", s.handleIsFollowing).Methods(http.MethodGet)

	// message routes
	router.HandleFunc("/msgs", s.handleGetMessages).Methods(http.MethodGet)
	router.HandleFunc("/msgs/{username}", s.handleMessagesPerUser).Methods(http.MethodGet)
	router.HandleFunc("/msgs/{username}", s.handlePostMessage).Methods(http.MethodPost)
	router.HandleFunc("/timeline", s.handleTimeline).Methods(http.MethodGet)

	// metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return s.requestIDMiddleware(instrumentHandler(router))
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.routes()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
