package albums

import (
	"context"

	"musiccatalog/internal/app"
	"musiccatalog/internal/store"
)

// Store captures the persistence needs for album workflows.
type Store interface {
	AlbumsPage(ctx context.Context, req store.AlbumPageRequest) (store.Page[store.AlbumView], error)
	AlbumView(ctx context.Context, id int64) (*store.AlbumView, error)
	AlbumEdit(ctx context.Context, id int64) (*store.AlbumEdit, error)
	CreateAlbum(ctx context.Context, edit store.AlbumEdit) (int64, error)
	UpdateAlbum(ctx context.Context, id int64, edit store.AlbumEdit) (bool, error)
	DeleteAlbum(ctx context.Context, id int64) (bool, error)
}

// Service coordinates album-related operations.
type Service interface {
	List(ctx context.Context, req store.AlbumPageRequest) (store.Page[store.AlbumView], error)
	View(ctx context.Context, id int64) (*store.AlbumView, error)
	Edit(ctx context.Context, id int64) (*store.AlbumEdit, error)
	Create(ctx context.Context, edit store.AlbumEdit) (int64, error)
	Update(ctx context.Context, id int64, edit store.AlbumEdit) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, req store.AlbumPageRequest) (store.Page[store.AlbumView], error) {
	if err := ctx.Err(); err != nil {
		return store.Page[store.AlbumView]{}, err
	}
	return s.store.AlbumsPage(ctx, req)
}

func (s *service) View(ctx context.Context, id int64) (*store.AlbumView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.AlbumView(ctx, id)
}

func (s *service) Edit(ctx context.Context, id int64) (*store.AlbumEdit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.AlbumEdit(ctx, id)
}

func (s *service) Create(ctx context.Context, edit store.AlbumEdit) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateAlbum(ctx, edit)
	app.LogWrite(ctx, "album", "create", id, true, err)
	return id, err
}

func (s *service) Update(ctx context.Context, id int64, edit store.AlbumEdit) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.store.UpdateAlbum(ctx, id, edit)
	app.LogWrite(ctx, "album", "update", id, ok, err)
	return ok, err
}

func (s *service) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.store.DeleteAlbum(ctx, id)
	app.LogWrite(ctx, "album", "delete", id, ok, err)
	return ok, err
}
