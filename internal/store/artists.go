package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArtist indicates validation failure for artist data.
var ErrInvalidArtist = errors.New("invalid artist")

const maxArtistNameLength = 50

// ArtistView is the display shape of an artist.
type ArtistView struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	AlbumCount int        `json:"albumCount"`
	Created    time.Time  `json:"created"`
	Updated    *time.Time `json:"updated,omitempty"`
}

// ArtistEdit is the editable shape of an artist, accepted back by the write operations.
type ArtistEdit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const artistViewSelect = `
	SELECT a.id, a.name,
		(SELECT COUNT(*) FROM albums al WHERE al.artist_id = a.id) AS album_count,
		a.created, a.updated
	FROM artists a`

var artistSorts = sortTable{
	columns: map[string]sortColumn{
		"albumcount": {expr: "album_count"},
		"created":    {expr: "a.created"},
		"updated":    {expr: "a.updated", nullable: true},
	},
	fallback: sortColumn{expr: "a.name"},
	tiebreak: "a.id",
}

// ArtistsPage lists artists whose name contains the search term.
func (s *Store) ArtistsPage(ctx context.Context, req PageRequest) (Page[ArtistView], error) {
	return queryPage(ctx, s, listing[ArtistView]{
		name:      "artists",
		selectSQL: artistViewSelect,
		countSQL:  `SELECT COUNT(*) FROM artists a`,
		sorts:     artistSorts,
		where: func(a *args) []string {
			return s.searchClause(a, req.Search, "a.name")
		},
		scan: scanArtistView,
	}, req)
}

// ArtistView returns the display shape of one artist, or nil when it does not exist.
func (s *Store) ArtistView(ctx context.Context, id int64) (*ArtistView, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(artistViewSelect+`
		WHERE a.id = $1
	`), id)

	view, err := scanArtistView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &view, nil
}

// ArtistEdit returns the editable shape of one artist, or nil when it does not exist.
func (s *Store) ArtistEdit(ctx context.Context, id int64) (*ArtistEdit, error) {
	var edit ArtistEdit
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name
		FROM artists
		WHERE id = $1
	`), id).Scan(&edit.ID, &edit.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select artist: %w", err)
	}
	return &edit, nil
}

// ArtistNames lists every artist as an (id, name) pair ordered by name.
func (s *Store) ArtistNames(ctx context.Context) ([]NameRef, error) {
	return s.nameRefs(ctx, "artist", `
		SELECT id, name
		FROM artists
		ORDER BY name ASC, id ASC
	`)
}

// CreateArtist inserts a new artist and returns its id.
func (s *Store) CreateArtist(ctx context.Context, edit ArtistEdit) (int64, error) {
	name, err := requiredText(ErrInvalidArtist, "name", edit.Name, maxArtistNameLength)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO artists (name, created)
		VALUES ($1, $2)
		RETURNING id
	`), name, s.now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert artist: %w", classify(err))
	}
	return id, nil
}

// UpdateArtist overwrites the artist's fields; it reports false when the artist does not exist.
func (s *Store) UpdateArtist(ctx context.Context, id int64, edit ArtistEdit) (bool, error) {
	name, err := requiredText(ErrInvalidArtist, "name", edit.Name, maxArtistNameLength)
	if err != nil {
		return false, err
	}

	ok, err := s.execAffected(ctx, s.db, `
		UPDATE artists
		SET name = $1, updated = $2
		WHERE id = $3
	`, name, s.now(), id)
	if err != nil {
		return false, fmt.Errorf("update artist: %w", err)
	}
	return ok, nil
}

// DeleteArtist removes the artist together with its albums, their tracks and genre links.
func (s *Store) DeleteArtist(ctx context.Context, id int64) (bool, error) {
	ok, err := s.execAffected(ctx, s.db, `
		DELETE FROM artists
		WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete artist: %w", err)
	}
	return ok, nil
}

func scanArtistView(scanner rowScanner) (ArtistView, error) {
	var (
		v       ArtistView
		updated sql.NullTime
	)
	if err := scanner.Scan(&v.ID, &v.Name, &v.AlbumCount, &v.Created, &updated); err != nil {
		return ArtistView{}, fmt.Errorf("scan artist: %w", err)
	}
	v.Updated = nullTimePtr(updated)
	return v, nil
}
