package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidAlbum indicates validation failure for album data.
var ErrInvalidAlbum = errors.New("invalid album")

const maxAlbumTitleLength = 50

// AlbumView is the display shape of an album with its artist and genre names resolved.
type AlbumView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	ReleaseYear int        `json:"releaseYear"`
	TrackCount  int        `json:"trackCount"`
	Genres      []string   `json:"genres"`
	ArtistID    int64      `json:"artistId"`
	ArtistName  string     `json:"artistName"`
	Created     time.Time  `json:"created"`
	Updated     *time.Time `json:"updated,omitempty"`
}

// AlbumEdit is the editable shape of an album, accepted back by the write operations.
type AlbumEdit struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseYear int     `json:"releaseYear"`
	ArtistID    int64   `json:"artistId"`
	GenreIDs    []int64 `json:"genreIds"`
}

// AlbumPageRequest narrows an album listing to one artist when ArtistID is set.
type AlbumPageRequest struct {
	PageRequest
	ArtistID *int64
}

const albumViewSelect = `
	SELECT al.id, al.title, al.release_year,
		(SELECT COUNT(*) FROM tracks t WHERE t.album_id = al.id) AS track_count,
		al.artist_id, ar.name AS artist_name, al.created, al.updated
	FROM albums al
	JOIN artists ar ON ar.id = al.artist_id`

var albumSorts = sortTable{
	columns: map[string]sortColumn{
		"trackcount":  {expr: "track_count"},
		"releaseyear": {expr: "al.release_year"},
		"artistname":  {expr: "ar.name"},
		"created":     {expr: "al.created"},
		"updated":     {expr: "al.updated", nullable: true},
	},
	fallback: sortColumn{expr: "al.title"},
	tiebreak: "al.id",
}

// AlbumsPage lists albums whose title or artist name contains the search term.
func (s *Store) AlbumsPage(ctx context.Context, req AlbumPageRequest) (Page[AlbumView], error) {
	return queryPage(ctx, s, listing[AlbumView]{
		name:      "albums",
		selectSQL: albumViewSelect,
		countSQL: `SELECT COUNT(*) FROM albums al
	JOIN artists ar ON ar.id = al.artist_id`,
		sorts: albumSorts,
		where: func(a *args) []string {
			var clauses []string
			if req.ArtistID != nil {
				clauses = append(clauses, "al.artist_id = "+a.bind(*req.ArtistID))
			}
			return append(clauses, s.searchClause(a, req.Search, "al.title", "ar.name")...)
		},
		scan:     scanAlbumView,
		decorate: s.attachGenreNames,
	}, req.PageRequest)
}

// AlbumView returns the display shape of one album, or nil when it does not exist.
func (s *Store) AlbumView(ctx context.Context, id int64) (*AlbumView, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(albumViewSelect+`
		WHERE al.id = $1
	`), id)

	view, err := scanAlbumView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	views := []AlbumView{view}
	if err := s.attachGenreNames(ctx, s.db, views); err != nil {
		return nil, err
	}
	return &views[0], nil
}

// AlbumEdit returns the editable shape of one album, or nil when it does not exist.
func (s *Store) AlbumEdit(ctx context.Context, id int64) (*AlbumEdit, error) {
	var edit AlbumEdit
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, title, release_year, artist_id
		FROM albums
		WHERE id = $1
	`), id).Scan(&edit.ID, &edit.Title, &edit.ReleaseYear, &edit.ArtistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select album: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT genre_id
		FROM album_genres
		WHERE album_id = $1
		ORDER BY genre_id ASC
	`), id)
	if err != nil {
		return nil, fmt.Errorf("select album genres: %w", err)
	}
	defer rows.Close()

	edit.GenreIDs = []int64{}
	for rows.Next() {
		var genreID int64
		if err := rows.Scan(&genreID); err != nil {
			return nil, fmt.Errorf("scan album genre: %w", err)
		}
		edit.GenreIDs = append(edit.GenreIDs, genreID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate album genres: %w", err)
	}

	return &edit, nil
}

// CreateAlbum inserts an album and its genre links atomically and returns the album id.
func (s *Store) CreateAlbum(ctx context.Context, edit AlbumEdit) (int64, error) {
	title, genreIDs, err := validateAlbum(edit)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now()
		if err := tx.QueryRowContext(ctx, s.rebind(`
			INSERT INTO albums (title, release_year, artist_id, created)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`), title, edit.ReleaseYear, edit.ArtistID, now).Scan(&id); err != nil {
			return fmt.Errorf("insert album: %w", classify(err))
		}
		return s.linkGenres(ctx, tx, id, genreIDs, now)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateAlbum overwrites the album's fields and reconciles its genre links in one
// transaction; links that survive keep their creation time. It reports false when
// the album does not exist.
func (s *Store) UpdateAlbum(ctx context.Context, id int64, edit AlbumEdit) (bool, error) {
	title, genreIDs, err := validateAlbum(edit)
	if err != nil {
		return false, err
	}

	var found bool
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now()
		ok, err := s.execAffected(ctx, tx, `
			UPDATE albums
			SET title = $1, release_year = $2, artist_id = $3, updated = $4
			WHERE id = $5
		`, title, edit.ReleaseYear, edit.ArtistID, now, id)
		if err != nil {
			return fmt.Errorf("update album: %w", err)
		}
		if !ok {
			return nil
		}
		found = true

		current, err := s.linkedGenreIDs(ctx, tx, id)
		if err != nil {
			return err
		}

		wanted := make(map[int64]struct{}, len(genreIDs))
		for _, genreID := range genreIDs {
			wanted[genreID] = struct{}{}
		}

		var added, removed []int64
		for _, genreID := range genreIDs {
			if _, ok := current[genreID]; !ok {
				added = append(added, genreID)
			}
		}
		for genreID := range current {
			if _, ok := wanted[genreID]; !ok {
				removed = append(removed, genreID)
			}
		}
		sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })

		for _, genreID := range removed {
			if _, err := tx.ExecContext(ctx, s.rebind(`
				DELETE FROM album_genres
				WHERE album_id = $1 AND genre_id = $2
			`), id, genreID); err != nil {
				return fmt.Errorf("unlink genre: %w", err)
			}
		}

		return s.linkGenres(ctx, tx, id, added, now)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// DeleteAlbum removes the album together with its tracks and genre links.
func (s *Store) DeleteAlbum(ctx context.Context, id int64) (bool, error) {
	ok, err := s.execAffected(ctx, s.db, `
		DELETE FROM albums
		WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete album: %w", err)
	}
	return ok, nil
}

func (s *Store) linkGenres(ctx context.Context, tx *sql.Tx, albumID int64, genreIDs []int64, now time.Time) error {
	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO album_genres (album_id, genre_id, created)
			VALUES ($1, $2, $3)
		`), albumID, genreID, now); err != nil {
			return fmt.Errorf("link genre %d: %w", genreID, classify(err))
		}
	}
	return nil
}

func (s *Store) linkedGenreIDs(ctx context.Context, tx *sql.Tx, albumID int64) (map[int64]struct{}, error) {
	rows, err := tx.QueryContext(ctx, s.rebind(`
		SELECT genre_id
		FROM album_genres
		WHERE album_id = $1
	`), albumID)
	if err != nil {
		return nil, fmt.Errorf("select album genres: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var genreID int64
		if err := rows.Scan(&genreID); err != nil {
			return nil, fmt.Errorf("scan album genre: %w", err)
		}
		ids[genreID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate album genres: %w", err)
	}
	return ids, nil
}

// attachGenreNames fills Genres for every album with one query, names sorted alphabetically.
func (s *Store) attachGenreNames(ctx context.Context, q queryer, albums []AlbumView) error {
	if len(albums) == 0 {
		return nil
	}

	var (
		bound        args
		placeholders = make([]string, 0, len(albums))
		index        = make(map[int64]int, len(albums))
	)
	for i := range albums {
		albums[i].Genres = []string{}
		index[albums[i].ID] = i
		placeholders = append(placeholders, bound.bind(albums[i].ID))
	}

	rows, err := q.QueryContext(ctx, s.rebind(`
		SELECT ag.album_id, g.name
		FROM album_genres ag
		JOIN genres g ON g.id = ag.genre_id
		WHERE ag.album_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY g.name ASC, g.id ASC
	`), bound.values...)
	if err != nil {
		return fmt.Errorf("select album genre names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			albumID int64
			name    string
		)
		if err := rows.Scan(&albumID, &name); err != nil {
			return fmt.Errorf("scan album genre name: %w", err)
		}
		if i, ok := index[albumID]; ok {
			albums[i].Genres = append(albums[i].Genres, name)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate album genre names: %w", err)
	}
	return nil
}

// validateAlbum returns the trimmed title and the de-duplicated, ordered genre ids.
func validateAlbum(edit AlbumEdit) (string, []int64, error) {
	title, err := requiredText(ErrInvalidAlbum, "title", edit.Title, maxAlbumTitleLength)
	if err != nil {
		return "", nil, err
	}
	if err := requiredID(ErrInvalidAlbum, "artist id", edit.ArtistID); err != nil {
		return "", nil, err
	}

	seen := make(map[int64]struct{}, len(edit.GenreIDs))
	genreIDs := make([]int64, 0, len(edit.GenreIDs))
	for _, genreID := range edit.GenreIDs {
		if err := requiredID(ErrInvalidAlbum, "genre id", genreID); err != nil {
			return "", nil, err
		}
		if _, dup := seen[genreID]; dup {
			continue
		}
		seen[genreID] = struct{}{}
		genreIDs = append(genreIDs, genreID)
	}
	sort.Slice(genreIDs, func(i, j int) bool { return genreIDs[i] < genreIDs[j] })

	return title, genreIDs, nil
}

func scanAlbumView(scanner rowScanner) (AlbumView, error) {
	var (
		v       AlbumView
		updated sql.NullTime
	)
	if err := scanner.Scan(
		&v.ID,
		&v.Title,
		&v.ReleaseYear,
		&v.TrackCount,
		&v.ArtistID,
		&v.ArtistName,
		&v.Created,
		&updated,
	); err != nil {
		return AlbumView{}, fmt.Errorf("scan album: %w", err)
	}
	v.Genres = []string{}
	v.Updated = nullTimePtr(updated)
	return v, nil
}
