package genres

import (
	"context"

	"musiccatalog/internal/app"
	"musiccatalog/internal/store"
)

// Store captures the persistence needs for genre workflows.
type Store interface {
	GenresPage(ctx context.Context, req store.PageRequest) (store.Page[store.GenreView], error)
	GenreView(ctx context.Context, id int64) (*store.GenreView, error)
	GenreEdit(ctx context.Context, id int64) (*store.GenreEdit, error)
	GenreNames(ctx context.Context) ([]store.NameRef, error)
	CreateGenre(ctx context.Context, edit store.GenreEdit) (int64, error)
	UpdateGenre(ctx context.Context, id int64, edit store.GenreEdit) (bool, error)
	DeleteGenre(ctx context.Context, id int64) (bool, error)
}

// Service coordinates genre-related operations.
type Service interface {
	List(ctx context.Context, req store.PageRequest) (store.Page[store.GenreView], error)
	View(ctx context.Context, id int64) (*store.GenreView, error)
	Edit(ctx context.Context, id int64) (*store.GenreEdit, error)
	Names(ctx context.Context) ([]store.NameRef, error)
	Create(ctx context.Context, edit store.GenreEdit) (int64, error)
	Update(ctx context.Context, id int64, edit store.GenreEdit) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, req store.PageRequest) (store.Page[store.GenreView], error) {
	if err := ctx.Err(); err != nil {
		return store.Page[store.GenreView]{}, err
	}
	return s.store.GenresPage(ctx, req)
}

func (s *service) View(ctx context.Context, id int64) (*store.GenreView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GenreView(ctx, id)
}

func (s *service) Edit(ctx context.Context, id int64) (*store.GenreEdit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GenreEdit(ctx, id)
}

func (s *service) Names(ctx context.Context) ([]store.NameRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GenreNames(ctx)
}

func (s *service) Create(ctx context.Context, edit store.GenreEdit) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateGenre(ctx, edit)
	app.LogWrite(ctx, "genre", "create", id, true, err)
	return id, err
}

func (s *service) Update(ctx context.Context, id int64, edit store.GenreEdit) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.store.UpdateGenre(ctx, id, edit)
	app.LogWrite(ctx, "genre", "update", id, ok, err)
	return ok, err
}

func (s *service) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := s.store.DeleteGenre(ctx, id)
	app.LogWrite(ctx, "genre", "delete", id, ok, err)
	return ok, err
}
