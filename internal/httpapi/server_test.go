package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"musiccatalog/internal/app/tracks"
	"musiccatalog/internal/store"
)

type stubArtistService struct {
	page    store.Page[store.ArtistView]
	lastReq store.PageRequest

	view  *store.ArtistView
	names []store.NameRef

	createdID int64
	createErr error
	lastEdit  store.ArtistEdit

	updated   bool
	deleted   bool
	lastID    int64
	updateErr error
}

func (s *stubArtistService) List(_ context.Context, req store.PageRequest) (store.Page[store.ArtistView], error) {
	s.lastReq = req
	return s.page, nil
}

func (s *stubArtistService) View(_ context.Context, id int64) (*store.ArtistView, error) {
	s.lastID = id
	return s.view, nil
}

func (s *stubArtistService) Edit(context.Context, int64) (*store.ArtistEdit, error) {
	return nil, nil
}

func (s *stubArtistService) Names(context.Context) ([]store.NameRef, error) {
	return s.names, nil
}

func (s *stubArtistService) Create(_ context.Context, edit store.ArtistEdit) (int64, error) {
	s.lastEdit = edit
	return s.createdID, s.createErr
}

func (s *stubArtistService) Update(_ context.Context, id int64, edit store.ArtistEdit) (bool, error) {
	s.lastID = id
	s.lastEdit = edit
	return s.updated, s.updateErr
}

func (s *stubArtistService) Delete(_ context.Context, id int64) (bool, error) {
	s.lastID = id
	return s.deleted, nil
}

type stubAlbumService struct {
	page    store.Page[store.AlbumView]
	lastReq store.AlbumPageRequest
	listErr error

	edit *store.AlbumEdit

	createdID int64
	createErr error
	lastEdit  store.AlbumEdit
}

func (s *stubAlbumService) List(_ context.Context, req store.AlbumPageRequest) (store.Page[store.AlbumView], error) {
	s.lastReq = req
	return s.page, s.listErr
}

func (s *stubAlbumService) View(context.Context, int64) (*store.AlbumView, error) { return nil, nil }

func (s *stubAlbumService) Edit(context.Context, int64) (*store.AlbumEdit, error) {
	return s.edit, nil
}

func (s *stubAlbumService) Create(_ context.Context, edit store.AlbumEdit) (int64, error) {
	s.lastEdit = edit
	return s.createdID, s.createErr
}

func (s *stubAlbumService) Update(context.Context, int64, store.AlbumEdit) (bool, error) {
	return true, nil
}

func (s *stubAlbumService) Delete(context.Context, int64) (bool, error) { return true, nil }

type stubGenreService struct {
	names []store.NameRef
}

func (s *stubGenreService) List(context.Context, store.PageRequest) (store.Page[store.GenreView], error) {
	return store.Page[store.GenreView]{Items: []store.GenreView{}}, nil
}

func (s *stubGenreService) View(context.Context, int64) (*store.GenreView, error) { return nil, nil }
func (s *stubGenreService) Edit(context.Context, int64) (*store.GenreEdit, error) { return nil, nil }
func (s *stubGenreService) Names(context.Context) ([]store.NameRef, error)        { return s.names, nil }
func (s *stubGenreService) Create(context.Context, store.GenreEdit) (int64, error) {
	return 1, nil
}
func (s *stubGenreService) Update(context.Context, int64, store.GenreEdit) (bool, error) {
	return true, nil
}
func (s *stubGenreService) Delete(context.Context, int64) (bool, error) { return true, nil }

type stubTrackService struct {
	tracks  []store.TrackView
	listErr error
	edit    *store.TrackEdit
}

func (s *stubTrackService) ListByAlbum(context.Context, int64) ([]store.TrackView, error) {
	return s.tracks, s.listErr
}

func (s *stubTrackService) Edit(context.Context, int64) (*store.TrackEdit, error) { return s.edit, nil }
func (s *stubTrackService) Create(context.Context, store.TrackEdit) (int64, error) {
	return 1, nil
}
func (s *stubTrackService) Update(context.Context, int64, store.TrackEdit) (bool, error) {
	return false, nil
}
func (s *stubTrackService) Delete(context.Context, int64) (bool, error) { return true, nil }

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	artists *stubArtistService
	albums  *stubAlbumService
	genres  *stubGenreService
	tracks  *stubTrackService
	handler http.Handler
}

func newTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()
	ts := &testServer{
		artists: &stubArtistService{},
		albums:  &stubAlbumService{},
		genres:  &stubGenreService{},
		tracks:  &stubTrackService{},
	}
	ts.handler = New(ts.artists, ts.albums, ts.genres, ts.tracks, opts...).Routes()
	return ts
}

func (ts *testServer) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleArtistsListDefaults(t *testing.T) {
	ts := newTestServer(t)
	ts.artists.page = store.Page[store.ArtistView]{
		Items:      []store.ArtistView{{ID: 1, Name: "Air", AlbumCount: 2}},
		TotalCount: 1,
		PageIndex:  1,
		PageSize:   20,
	}

	rr := ts.do(http.MethodGet, "/api/v1/artists", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	want := store.PageRequest{PageIndex: 1, PageSize: defaultPageSize}
	if ts.artists.lastReq != want {
		t.Fatalf("expected defaults %+v, got %+v", want, ts.artists.lastReq)
	}

	var payload struct {
		Items      []store.ArtistView `json:"items"`
		TotalCount int                `json:"totalCount"`
		Page       int                `json:"page"`
		PageSize   int                `json:"pageSize"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.TotalCount != 1 || len(payload.Items) != 1 || payload.Items[0].Name != "Air" || payload.Page != 1 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestHandleArtistsListParsesQuery(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/api/v1/artists?search=air&sort=albumCount&desc=true&page=3&pageSize=500", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	want := store.PageRequest{Search: "air", SortField: "albumCount", Descending: true, PageIndex: 3, PageSize: maxPageSize}
	if ts.artists.lastReq != want {
		t.Fatalf("expected %+v, got %+v", want, ts.artists.lastReq)
	}
}

func TestHandleListRejectsBadPaging(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{
		"/api/v1/artists?page=0",
		"/api/v1/genres?pageSize=-1",
		"/api/v1/albums?page=abc",
		"/api/v1/albums?desc=maybe",
		"/api/v1/albums?artistId=0",
	} {
		if rr := ts.do(http.MethodGet, target, nil); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rr.Code)
		}
	}
}

func TestHandleAlbumsListArtistFilter(t *testing.T) {
	ts := newTestServer(t)
	ts.albums.page = store.Page[store.AlbumView]{Items: []store.AlbumView{}, PageIndex: 1, PageSize: 10}

	rr := ts.do(http.MethodGet, "/api/v1/albums?artistId=7&search=moon&pageSize=10", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ts.albums.lastReq.ArtistID == nil || *ts.albums.lastReq.ArtistID != 7 {
		t.Fatalf("expected artist filter 7, got %v", ts.albums.lastReq.ArtistID)
	}
	if ts.albums.lastReq.Search != "moon" || ts.albums.lastReq.PageSize != 10 {
		t.Fatalf("unexpected request %+v", ts.albums.lastReq)
	}
}

func TestHandleAlbumsListInvalidPageFromStore(t *testing.T) {
	ts := newTestServer(t)
	ts.albums.listErr = fmt.Errorf("%w: page index must be at least 1", store.ErrInvalidPage)

	if rr := ts.do(http.MethodGet, "/api/v1/albums", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleAlbumsListStorageFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.albums.listErr = errors.New("connection reset")

	rr := ts.do(http.MethodGet, "/api/v1/albums", nil)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("connection reset")) {
		t.Fatalf("storage error leaked to client: %s", rr.Body.String())
	}
}

func TestHandleArtistViewNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/api/v1/artists/42", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	if ts.artists.lastID != 42 {
		t.Fatalf("expected lookup of 42, got %d", ts.artists.lastID)
	}
}

func TestHandleArtistViewFound(t *testing.T) {
	ts := newTestServer(t)
	ts.artists.view = &store.ArtistView{ID: 3, Name: "Air", AlbumCount: 2}

	rr := ts.do(http.MethodGet, "/api/v1/artists/3", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var got store.ArtistView
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Name != "Air" || got.AlbumCount != 2 || got.Updated != nil {
		t.Fatalf("unexpected artist %+v", got)
	}
}

func TestHandleNames(t *testing.T) {
	ts := newTestServer(t)
	ts.artists.names = []store.NameRef{{ID: 1, Name: "Air"}}
	ts.genres.names = []store.NameRef{{ID: 2, Name: "Electronic"}}

	rr := ts.do(http.MethodGet, "/api/v1/artists/names", nil)
	if rr.Code != http.StatusOK || !bytes.Contains(rr.Body.Bytes(), []byte(`"name":"Air"`)) {
		t.Fatalf("unexpected artist names response %d %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(http.MethodGet, "/api/v1/genres/names", nil)
	if rr.Code != http.StatusOK || !bytes.Contains(rr.Body.Bytes(), []byte(`"name":"Electronic"`)) {
		t.Fatalf("unexpected genre names response %d %s", rr.Code, rr.Body.String())
	}
}

func TestHandleArtistCreate(t *testing.T) {
	ts := newTestServer(t)
	ts.artists.createdID = 11

	rr := ts.do(http.MethodPost, "/api/v1/artists", map[string]any{"name": "Air"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/api/v1/artists/11" {
		t.Fatalf("unexpected location %q", got)
	}
	var payload createdResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID != 11 || ts.artists.lastEdit.Name != "Air" {
		t.Fatalf("unexpected create %+v / %+v", payload, ts.artists.lastEdit)
	}
}

func TestHandleArtistCreateErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: name is required", store.ErrInvalidArtist), http.StatusBadRequest},
		{"constraint", fmt.Errorf("insert artist: %w", fmt.Errorf("%w: fk", store.ErrConstraint)), http.StatusConflict},
		{"storage", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.artists.createErr = tt.err

			rr := ts.do(http.MethodPost, "/api/v1/artists", map[string]any{"name": ""})

			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestHandleCreateInvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/albums", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleAlbumCreatePassesGenres(t *testing.T) {
	ts := newTestServer(t)
	ts.albums.createdID = 5

	rr := ts.do(http.MethodPost, "/api/v1/albums", map[string]any{
		"title":       "Moon Safari",
		"releaseYear": 1997,
		"artistId":    1,
		"genreIds":    []int64{2, 3},
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	edit := ts.albums.lastEdit
	if edit.Title != "Moon Safari" || edit.ReleaseYear != 1997 || edit.ArtistID != 1 || len(edit.GenreIDs) != 2 {
		t.Fatalf("unexpected edit %+v", edit)
	}
}

func TestHandleArtistUpdateAndDelete(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPut, "/api/v1/artists/9", map[string]any{"id": 1, "name": "Daft Punk"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for missing artist, got %d", rr.Code)
	}
	if ts.artists.lastID != 9 {
		t.Fatalf("expected path id to win, got %d", ts.artists.lastID)
	}

	ts.artists.updated = true
	if rr := ts.do(http.MethodPut, "/api/v1/artists/9", map[string]any{"name": "Daft Punk"}); rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}

	ts.artists.deleted = true
	if rr := ts.do(http.MethodDelete, "/api/v1/artists/9", nil); rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
}

func TestHandleAlbumEditAndTracks(t *testing.T) {
	ts := newTestServer(t)
	ts.albums.edit = &store.AlbumEdit{ID: 4, Title: "Talkie Walkie", GenreIDs: []int64{1}}
	ts.tracks.tracks = []store.TrackView{{ID: 1, Title: "Venus", TrackNumber: 1, AlbumID: 4}}

	rr := ts.do(http.MethodGet, "/api/v1/albums/4/edit", nil)
	if rr.Code != http.StatusOK || !bytes.Contains(rr.Body.Bytes(), []byte(`"genreIds":[1]`)) {
		t.Fatalf("unexpected edit response %d %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(http.MethodGet, "/api/v1/albums/4/tracks", nil)
	if rr.Code != http.StatusOK || !bytes.Contains(rr.Body.Bytes(), []byte(`"title":"Venus"`)) {
		t.Fatalf("unexpected tracks response %d %s", rr.Code, rr.Body.String())
	}

	ts.tracks.listErr = tracks.ErrAlbumNotFound
	if rr := ts.do(http.MethodGet, "/api/v1/albums/99/tracks", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleTrackRoutes(t *testing.T) {
	ts := newTestServer(t)

	if rr := ts.do(http.MethodGet, "/api/v1/tracks/3/edit", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	if rr := ts.do(http.MethodPost, "/api/v1/tracks", map[string]any{"title": "Venus", "albumId": 4}); rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if rr := ts.do(http.MethodPut, "/api/v1/tracks/3", map[string]any{"title": "Venus", "albumId": 4}); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestRoutesRejectUnknownPathsAndMethods(t *testing.T) {
	ts := newTestServer(t)

	if rr := ts.do(http.MethodGet, "/api/v1/artists/abc", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	if rr := ts.do(http.MethodPatch, "/api/v1/artists/1", nil); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestWriteGuardOnlyWrapsWrites(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	ts := newTestServer(t, WithWriteGuard(deny))

	if rr := ts.do(http.MethodGet, "/api/v1/genres", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected reads to pass, got %d", rr.Code)
	}
	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/api/v1/genres"},
		{http.MethodPut, "/api/v1/albums/1"},
		{http.MethodDelete, "/api/v1/tracks/1"},
	} {
		if rr := ts.do(tc.method, tc.target, map[string]any{}); rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected status 401, got %d", tc.method, tc.target, rr.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, WithHealthCheck(stubPinger{}))
	if rr := ts.do(http.MethodGet, "/health", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	ts = newTestServer(t, WithHealthCheck(stubPinger{err: errors.New("down")}))
	if rr := ts.do(http.MethodGet, "/health", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}
