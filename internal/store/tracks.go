package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTrack indicates validation failure for track data.
var ErrInvalidTrack = errors.New("invalid track")

const maxTrackTitleLength = 50

// TrackView is the display shape of a track within its album.
type TrackView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	TrackNumber int        `json:"trackNumber"`
	AlbumID     int64      `json:"albumId"`
	AlbumTitle  string     `json:"albumTitle"`
	Created     time.Time  `json:"created"`
	Updated     *time.Time `json:"updated,omitempty"`
}

// TrackEdit is the editable shape of a track.
type TrackEdit struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	TrackNumber int    `json:"trackNumber"`
	AlbumID     int64  `json:"albumId"`
}

// AlbumTracks returns the album's tracks in track-number order.
func (s *Store) AlbumTracks(ctx context.Context, albumID int64) ([]TrackView, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT t.id, t.title, t.track_number, t.album_id, al.title, t.created, t.updated
		FROM tracks t
		JOIN albums al ON al.id = t.album_id
		WHERE t.album_id = $1
		ORDER BY t.track_number ASC, t.id ASC
	`), albumID)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []TrackView{}
	for rows.Next() {
		var (
			t       TrackView
			updated sql.NullTime
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.TrackNumber, &t.AlbumID, &t.AlbumTitle, &t.Created, &updated); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		t.Updated = nullTimePtr(updated)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}

	return tracks, nil
}

// TrackEdit returns the editable shape of one track, or nil when it does not exist.
func (s *Store) TrackEdit(ctx context.Context, id int64) (*TrackEdit, error) {
	var edit TrackEdit
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, title, track_number, album_id
		FROM tracks
		WHERE id = $1
	`), id).Scan(&edit.ID, &edit.Title, &edit.TrackNumber, &edit.AlbumID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select track: %w", err)
	}
	return &edit, nil
}

// CreateTrack inserts a track into an existing album and returns its id.
func (s *Store) CreateTrack(ctx context.Context, edit TrackEdit) (int64, error) {
	title, err := validateTrack(edit)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO tracks (title, track_number, album_id, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`), title, edit.TrackNumber, edit.AlbumID, s.now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert track: %w", classify(err))
	}
	return id, nil
}

// UpdateTrack overwrites the track's fields; it reports false when the track does not exist.
func (s *Store) UpdateTrack(ctx context.Context, id int64, edit TrackEdit) (bool, error) {
	title, err := validateTrack(edit)
	if err != nil {
		return false, err
	}

	ok, err := s.execAffected(ctx, s.db, `
		UPDATE tracks
		SET title = $1, track_number = $2, album_id = $3, updated = $4
		WHERE id = $5
	`, title, edit.TrackNumber, edit.AlbumID, s.now(), id)
	if err != nil {
		return false, fmt.Errorf("update track: %w", err)
	}
	return ok, nil
}

// DeleteTrack removes a single track.
func (s *Store) DeleteTrack(ctx context.Context, id int64) (bool, error) {
	ok, err := s.execAffected(ctx, s.db, `
		DELETE FROM tracks
		WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete track: %w", err)
	}
	return ok, nil
}

func validateTrack(edit TrackEdit) (string, error) {
	title, err := requiredText(ErrInvalidTrack, "title", edit.Title, maxTrackTitleLength)
	if err != nil {
		return "", err
	}
	if err := requiredID(ErrInvalidTrack, "album id", edit.AlbumID); err != nil {
		return "", err
	}
	if edit.TrackNumber < 0 {
		return "", fmt.Errorf("%w: track number must not be negative", ErrInvalidTrack)
	}
	return title, nil
}
