package artists

import (
	"context"

	"musiccatalog/internal/app"
	"musiccatalog/internal/store"
)

// Store captures the persistence needs for artist workflows.
type Store interface {
	ArtistsPage(ctx context.Context, req store.PageRequest) (store.Page[store.ArtistView], error)
	ArtistView(ctx context.Context, id int64) (*store.ArtistView, error)
	ArtistEdit(ctx context.Context, id int64) (*store.ArtistEdit, error)
	ArtistNames(ctx context.Context) ([]store.NameRef, error)
	CreateArtist(ctx context.Context, edit store.ArtistEdit) (int64, error)
	UpdateArtist(ctx context.Context, id int64, edit store.ArtistEdit) (bool, error)
	DeleteArtist(ctx context.Context, id int64) (bool, error)
}

// Service coordinates artist-related operations.
type Service interface {
	List(ctx context.Context, req store.PageRequest) (store.Page[store.ArtistView], error)
	View(ctx context.Context, id int64) (*store.ArtistView, error)
	Edit(ctx context.Context, id int64) (*store.ArtistEdit, error)
	Names(ctx context.Context) ([]store.NameRef, error)
	Create(ctx context.Context, edit store.ArtistEdit) (int64, error)
	Update(ctx context.Context, id int64, edit store.ArtistEdit) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, req store.PageRequest) (store.Page[store.ArtistView], error) {
	if err := ctx.Err(); err != nil {
		return store.Page[store.ArtistView]{}, err
	}
	return s.store.ArtistsPage(ctx, req)
}

func (s *service) View(ctx context.Context, id int64) (*store.ArtistView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ArtistView(ctx, id)
}

func (s *service) Edit(ctx context.Context, id int64) (*store.ArtistEdit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ArtistEdit(ctx, id)
}

func (s *service) Names(ctx context.Context) ([]store.NameRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ArtistNames(ctx)
}

func (s *service) Create(ctx context.Context, edit store.ArtistEdit) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateArtist(ctx, edit)
	app.LogWrite(ctx, "artist", "create", id, true, err)
	return id, err
}

func (s *service) Update(ctx context.Context, id int64, edit store.ArtistEdit) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.store.UpdateArtist(ctx, id, edit)
	app.LogWrite(ctx, "artist", "update", id, ok, err)
	return ok, err
}

func (s *service) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.store.DeleteArtist(ctx, id)
	app.LogWrite(ctx, "artist", "delete", id, ok, err)
	return ok, err
}
