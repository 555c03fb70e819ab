package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidGenre indicates validation failure for genre data.
var ErrInvalidGenre = errors.New("invalid genre")

const maxGenreNameLength = 20

// GenreView is the display shape of a genre.
type GenreView struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	AlbumCount int        `json:"albumCount"`
	Created    time.Time  `json:"created"`
	Updated    *time.Time `json:"updated,omitempty"`
}

// GenreEdit is the editable shape of a genre.
type GenreEdit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const genreViewSelect = `
	SELECT g.id, g.name,
		(SELECT COUNT(*) FROM album_genres ag WHERE ag.genre_id = g.id) AS album_count,
		g.created, g.updated
	FROM genres g`

var genreSorts = sortTable{
	columns: map[string]sortColumn{
		"albumcount": {expr: "album_count"},
		"created":    {expr: "g.created"},
		"updated":    {expr: "g.updated", nullable: true},
	},
	fallback: sortColumn{expr: "g.name"},
	tiebreak: "g.id",
}

// GenresPage lists genres whose name contains the search term.
func (s *Store) GenresPage(ctx context.Context, req PageRequest) (Page[GenreView], error) {
	return queryPage(ctx, s, listing[GenreView]{
		name:      "genres",
		selectSQL: genreViewSelect,
		countSQL:  `SELECT COUNT(*) FROM genres g`,
		sorts:     genreSorts,
		where: func(a *args) []string {
			return s.searchClause(a, req.Search, "g.name")
		},
		scan: scanGenreView,
	}, req)
}

// GenreView returns the display shape of one genre, or nil when it does not exist.
func (s *Store) GenreView(ctx context.Context, id int64) (*GenreView, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(genreViewSelect+`
		WHERE g.id = $1
	`), id)

	view, err := scanGenreView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &view, nil
}

// GenreEdit returns the editable shape of one genre, or nil when it does not exist.
func (s *Store) GenreEdit(ctx context.Context, id int64) (*GenreEdit, error) {
	var edit GenreEdit
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name
		FROM genres
		WHERE id = $1
	`), id).Scan(&edit.ID, &edit.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select genre: %w", err)
	}
	return &edit, nil
}

// GenreNames lists every genre as an (id, name) pair ordered by name.
func (s *Store) GenreNames(ctx context.Context) ([]NameRef, error) {
	return s.nameRefs(ctx, "genre", `
		SELECT id, name
		FROM genres
		ORDER BY name ASC, id ASC
	`)
}

// CreateGenre inserts a new genre and returns its id.
func (s *Store) CreateGenre(ctx context.Context, edit GenreEdit) (int64, error) {
	name, err := requiredText(ErrInvalidGenre, "name", edit.Name, maxGenreNameLength)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO genres (name, created)
		VALUES ($1, $2)
		RETURNING id
	`), name, s.now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert genre: %w", classify(err))
	}
	return id, nil
}

// UpdateGenre renames the genre; it reports false when the genre does not exist.
func (s *Store) UpdateGenre(ctx context.Context, id int64, edit GenreEdit) (bool, error) {
	name, err := requiredText(ErrInvalidGenre, "name", edit.Name, maxGenreNameLength)
	if err != nil {
		return false, err
	}

	ok, err := s.execAffected(ctx, s.db, `
		UPDATE genres
		SET name = $1, updated = $2
		WHERE id = $3
	`, name, s.now(), id)
	if err != nil {
		return false, fmt.Errorf("update genre: %w", err)
	}
	return ok, nil
}

// DeleteGenre removes the genre and unlinks it from every album.
func (s *Store) DeleteGenre(ctx context.Context, id int64) (bool, error) {
	ok, err := s.execAffected(ctx, s.db, `
		DELETE FROM genres
		WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete genre: %w", err)
	}
	return ok, nil
}

func scanGenreView(scanner rowScanner) (GenreView, error) {
	var (
		v       GenreView
		updated sql.NullTime
	)
	if err := scanner.Scan(&v.ID, &v.Name, &v.AlbumCount, &v.Created, &updated); err != nil {
		return GenreView{}, fmt.Errorf("scan genre: %w", err)
	}
	v.Updated = nullTimePtr(updated)
	return v, nil
}
