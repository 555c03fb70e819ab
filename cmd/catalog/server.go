package main

import (
	"net/http"

	"musiccatalog/internal/app/albums"
	"musiccatalog/internal/app/artists"
	"musiccatalog/internal/app/genres"
	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/config"
	"musiccatalog/internal/http/middleware"
	"musiccatalog/internal/httpapi"
	"musiccatalog/internal/store"
)

func newHTTPHandler(cfg *config.Config, dataStore *store.Store) http.Handler {
	artistSvc := artists.New(dataStore)
	albumSvc := albums.New(dataStore)
	genreSvc := genres.New(dataStore)
	trackSvc := tracks.New(dataStore, albumSvc)

	api := httpapi.New(artistSvc, albumSvc, genreSvc, trackSvc,
		httpapi.WithWriteGuard(middleware.RequireJWT(cfg.Security.JWTSecret)),
		httpapi.WithHealthCheck(dataStore),
	)

	var handler http.Handler = api.Routes()
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)
	return handler
}
