package tracks

import (
	"context"
	"errors"

	"musiccatalog/internal/app"
	"musiccatalog/internal/store"
)

// ErrAlbumNotFound is returned when listing the tracks of an album that does not exist.
var ErrAlbumNotFound = errors.New("album not found")

// Store captures the persistence needs for track workflows.
type Store interface {
	AlbumTracks(ctx context.Context, albumID int64) ([]store.TrackView, error)
	TrackEdit(ctx context.Context, id int64) (*store.TrackEdit, error)
	CreateTrack(ctx context.Context, edit store.TrackEdit) (int64, error)
	UpdateTrack(ctx context.Context, id int64, edit store.TrackEdit) (bool, error)
	DeleteTrack(ctx context.Context, id int64) (bool, error)
}

// AlbumProvider exposes the album lookup required for track retrieval.
type AlbumProvider interface {
	Edit(ctx context.Context, id int64) (*store.AlbumEdit, error)
}

// Service exposes track-centric operations.
type Service interface {
	ListByAlbum(ctx context.Context, albumID int64) ([]store.TrackView, error)
	Edit(ctx context.Context, id int64) (*store.TrackEdit, error)
	Create(ctx context.Context, edit store.TrackEdit) (int64, error)
	Update(ctx context.Context, id int64, edit store.TrackEdit) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type service struct {
	store  Store
	albums AlbumProvider
}

// New constructs a track Service backed by the provided store and album provider.
func New(store Store, albums AlbumProvider) Service {
	return &service{store: store, albums: albums}
}

func (s *service) ListByAlbum(ctx context.Context, albumID int64) ([]store.TrackView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	album, err := s.albums.Edit(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, ErrAlbumNotFound
	}

	return s.store.AlbumTracks(ctx, albumID)
}

func (s *service) Edit(ctx context.Context, id int64) (*store.TrackEdit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.TrackEdit(ctx, id)
}

func (s *service) Create(ctx context.Context, edit store.TrackEdit) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateTrack(ctx, edit)
	app.LogWrite(ctx, "track", "create", id, true, err)
	return id, err
}

func (s *service) Update(ctx context.Context, id int64, edit store.TrackEdit) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.store.UpdateTrack(ctx, id, edit)
	app.LogWrite(ctx, "track", "update", id, ok, err)
	return ok, err
}

func (s *service) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.store.DeleteTrack(ctx, id)
	app.LogWrite(ctx, "track", "delete", id, ok, err)
	return ok, err
}
