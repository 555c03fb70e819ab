package genres

import (
	"context"
	"errors"
	"testing"

	"musiccatalog/internal/store"
)

type stubStore struct {
	names []store.NameRef
	calls int
}

func (s *stubStore) GenresPage(_ context.Context, req store.PageRequest) (store.Page[store.GenreView], error) {
	s.calls++
	if err := req.Validate(); err != nil {
		return store.Page[store.GenreView]{}, err
	}
	return store.Page[store.GenreView]{Items: []store.GenreView{}, TotalCount: 5, PageIndex: req.PageIndex, PageSize: req.PageSize}, nil
}

func (s *stubStore) GenreView(context.Context, int64) (*store.GenreView, error) {
	s.calls++
	return &store.GenreView{ID: 1, Name: "Electronic", AlbumCount: 2}, nil
}

func (s *stubStore) GenreEdit(context.Context, int64) (*store.GenreEdit, error) {
	s.calls++
	return &store.GenreEdit{ID: 1, Name: "Electronic"}, nil
}

func (s *stubStore) GenreNames(context.Context) ([]store.NameRef, error) {
	s.calls++
	return s.names, nil
}

func (s *stubStore) CreateGenre(_ context.Context, edit store.GenreEdit) (int64, error) {
	s.calls++
	if edit.Name == "" {
		return 0, store.ErrInvalidGenre
	}
	return 4, nil
}

func (s *stubStore) UpdateGenre(context.Context, int64, store.GenreEdit) (bool, error) {
	s.calls++
	return false, nil
}

func (s *stubStore) DeleteGenre(context.Context, int64) (bool, error) {
	s.calls++
	return true, nil
}

func TestListPropagatesInvalidPage(t *testing.T) {
	svc := New(&stubStore{})

	if _, err := svc.List(context.Background(), store.PageRequest{PageIndex: 0, PageSize: 2}); !errors.Is(err, store.ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
	page, err := svc.List(context.Background(), store.PageRequest{PageIndex: 3, PageSize: 2})
	if err != nil || page.TotalCount != 5 || page.PageIndex != 3 {
		t.Fatalf("unexpected page (%+v, %v)", page, err)
	}
}

func TestReadsAndWrites(t *testing.T) {
	st := &stubStore{names: []store.NameRef{{ID: 1, Name: "Electronic"}, {ID: 2, Name: "Trip Hop"}}}
	svc := New(st)
	ctx := context.Background()

	names, err := svc.Names(ctx)
	if err != nil || len(names) != 2 || names[1].Name != "Trip Hop" {
		t.Fatalf("Names = (%+v, %v)", names, err)
	}
	if view, err := svc.View(ctx, 1); err != nil || view.AlbumCount != 2 {
		t.Fatalf("View = (%+v, %v)", view, err)
	}
	if edit, err := svc.Edit(ctx, 1); err != nil || edit.Name != "Electronic" {
		t.Fatalf("Edit = (%+v, %v)", edit, err)
	}
	if _, err := svc.Create(ctx, store.GenreEdit{}); !errors.Is(err, store.ErrInvalidGenre) {
		t.Fatalf("expected ErrInvalidGenre, got %v", err)
	}
	if id, err := svc.Create(ctx, store.GenreEdit{Name: "Jazz"}); err != nil || id != 4 {
		t.Fatalf("Create = (%d, %v)", id, err)
	}
	if ok, err := svc.Update(ctx, 77, store.GenreEdit{Name: "Jazz"}); err != nil || ok {
		t.Fatalf("Update = (%v, %v)", ok, err)
	}
	if ok, err := svc.Delete(ctx, 4); err != nil || !ok {
		t.Fatalf("Delete = (%v, %v)", ok, err)
	}
}

func TestCancelledContextSkipsStore(t *testing.T) {
	st := &stubStore{}
	svc := New(st)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Names(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Names expected context.Canceled, got %v", err)
	}
	if _, err := svc.Create(ctx, store.GenreEdit{Name: "Jazz"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Create expected context.Canceled, got %v", err)
	}
	if st.calls != 0 {
		t.Fatalf("store called %d times after cancellation", st.calls)
	}
}
