package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/http/middleware"
	"musiccatalog/internal/logging"
	"musiccatalog/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxBodyBytes    = 1 << 20
)

// ArtistService describes artist catalogue workflows.
type ArtistService interface {
	List(ctx context.Context, req store.PageRequest) (store.Page[store.ArtistView], error)
	View(ctx context.Context, id int64) (*store.ArtistView, error)
	Edit(ctx context.Context, id int64) (*store.ArtistEdit, error)
	Names(ctx context.Context) ([]store.NameRef, error)
	Create(ctx context.Context, edit store.ArtistEdit) (int64, error)
	Update(ctx context.Context, id int64, edit store.ArtistEdit) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// AlbumService exposes album-specific workflows.
type AlbumService interface {
	List(ctx context.Context, req store.AlbumPageRequest) (store.Page[store.AlbumView], error)
	View(ctx context.Context, id int64) (*store.AlbumView, error)
	Edit(ctx context.Context, id int64) (*store.AlbumEdit, error)
	Create(ctx context.Context, edit store.AlbumEdit) (int64, error)
	Update(ctx context.Context, id int64, edit store.AlbumEdit) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// GenreService describes genre catalogue workflows.
type GenreService interface {
	List(ctx context.Context, req store.PageRequest) (store.Page[store.GenreView], error)
	View(ctx context.Context, id int64) (*store.GenreView, error)
	Edit(ctx context.Context, id int64) (*store.GenreEdit, error)
	Names(ctx context.Context) ([]store.NameRef, error)
	Create(ctx context.Context, edit store.GenreEdit) (int64, error)
	Update(ctx context.Context, id int64, edit store.GenreEdit) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// TrackService coordinates track-level operations.
type TrackService interface {
	ListByAlbum(ctx context.Context, albumID int64) ([]store.TrackView, error)
	Edit(ctx context.Context, id int64) (*store.TrackEdit, error)
	Create(ctx context.Context, edit store.TrackEdit) (int64, error)
	Update(ctx context.Context, id int64, edit store.TrackEdit) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	artists ArtistService
	albums  AlbumService
	genres  GenreService
	tracks  TrackService

	health     Pinger
	writeGuard func(http.Handler) http.Handler
}

// Option customises a Server.
type Option func(*Server)

// WithWriteGuard wraps every create, update and delete route in guard.
func WithWriteGuard(guard func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.writeGuard = guard
	}
}

// WithHealthCheck makes /health report the reachability of p.
func WithHealthCheck(p Pinger) Option {
	return func(s *Server) {
		s.health = p
	}
}

// New configures a Server with the given services.
func New(artists ArtistService, albums AlbumService, genres GenreService, tracks TrackService, opts ...Option) *Server {
	s := &Server{
		artists: artists,
		albums:  albums,
		genres:  genres,
		tracks:  tracks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes exposes the HTTP handlers of the catalogue API.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RouteTemplate)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/artists", s.handleArtistsList).Methods(http.MethodGet)
	api.HandleFunc("/artists/names", s.handleArtistNames).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id:[0-9]+}", s.handleArtistView).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id:[0-9]+}/edit", s.handleArtistEdit).Methods(http.MethodGet)
	api.Handle("/artists", s.guard(s.handleArtistCreate)).Methods(http.MethodPost)
	api.Handle("/artists/{id:[0-9]+}", s.guard(s.handleArtistUpdate)).Methods(http.MethodPut)
	api.Handle("/artists/{id:[0-9]+}", s.guard(s.handleArtistDelete)).Methods(http.MethodDelete)

	api.HandleFunc("/albums", s.handleAlbumsList).Methods(http.MethodGet)
	api.HandleFunc("/albums/{id:[0-9]+}", s.handleAlbumView).Methods(http.MethodGet)
	api.HandleFunc("/albums/{id:[0-9]+}/edit", s.handleAlbumEdit).Methods(http.MethodGet)
	api.HandleFunc("/albums/{id:[0-9]+}/tracks", s.handleAlbumTracks).Methods(http.MethodGet)
	api.Handle("/albums", s.guard(s.handleAlbumCreate)).Methods(http.MethodPost)
	api.Handle("/albums/{id:[0-9]+}", s.guard(s.handleAlbumUpdate)).Methods(http.MethodPut)
	api.Handle("/albums/{id:[0-9]+}", s.guard(s.handleAlbumDelete)).Methods(http.MethodDelete)

	api.HandleFunc("/genres", s.handleGenresList).Methods(http.MethodGet)
	api.HandleFunc("/genres/names", s.handleGenreNames).Methods(http.MethodGet)
	api.HandleFunc("/genres/{id:[0-9]+}", s.handleGenreView).Methods(http.MethodGet)
	api.HandleFunc("/genres/{id:[0-9]+}/edit", s.handleGenreEdit).Methods(http.MethodGet)
	api.Handle("/genres", s.guard(s.handleGenreCreate)).Methods(http.MethodPost)
	api.Handle("/genres/{id:[0-9]+}", s.guard(s.handleGenreUpdate)).Methods(http.MethodPut)
	api.Handle("/genres/{id:[0-9]+}", s.guard(s.handleGenreDelete)).Methods(http.MethodDelete)

	api.HandleFunc("/tracks/{id:[0-9]+}/edit", s.handleTrackEdit).Methods(http.MethodGet)
	api.Handle("/tracks", s.guard(s.handleTrackCreate)).Methods(http.MethodPost)
	api.Handle("/tracks/{id:[0-9]+}", s.guard(s.handleTrackUpdate)).Methods(http.MethodPut)
	api.Handle("/tracks/{id:[0-9]+}", s.guard(s.handleTrackDelete)).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return router
}

func (s *Server) guard(h http.HandlerFunc) http.Handler {
	if s.writeGuard == nil {
		return h
	}
	return s.writeGuard(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			logging.WithContext(r.Context()).Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

// parsePageRequest reads search, sort, desc, page and pageSize from the query string.
// Absent paging parameters fall back to the first page of defaultPageSize items.
func parsePageRequest(r *http.Request) (store.PageRequest, error) {
	query := r.URL.Query()
	req := store.PageRequest{
		Search:    query.Get("search"),
		SortField: query.Get("sort"),
		PageIndex: 1,
		PageSize:  defaultPageSize,
	}

	if raw := query.Get("desc"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			return store.PageRequest{}, errors.New("invalid desc parameter")
		}
		req.Descending = desc
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return store.PageRequest{}, errors.New("page must be a positive integer")
		}
		req.PageIndex = page
	}

	if raw := query.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return store.PageRequest{}, errors.New("pageSize must be a positive integer")
		}
		req.PageSize = min(size, maxPageSize)
	}

	return req, nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return false
	}
	return true
}

// writeServiceError maps service failures onto HTTP statuses. Storage errors
// are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case store.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrConstraint):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "request conflicts with related catalog data"})
	case errors.Is(err, tracks.ErrAlbumNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logging.WithContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// writeFound writes payload, or a 404 naming what was missing when it is nil.
func writeFound[T any](w http.ResponseWriter, what string, payload *T) {
	if payload == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: what + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeCreated(w http.ResponseWriter, r *http.Request, id int64) {
	w.Header().Set("Location", fmt.Sprintf("%s/%d", r.URL.Path, id))
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// writeChanged answers an update or delete: 204 when the row existed, 404 otherwise.
func writeChanged(w http.ResponseWriter, what string, ok bool) {
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: what + " not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
