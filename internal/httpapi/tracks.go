package httpapi

import (
	"net/http"

	"musiccatalog/internal/store"
)

// handleAlbumTracks lists an album's tracks in track-number order.
func (s *Server) handleAlbumTracks(w http.ResponseWriter, r *http.Request) {
	albumID, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	tracks, err := s.tracks.ListByAlbum(r.Context(), albumID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Tracks []store.TrackView `json:"tracks"`
	}{
		Tracks: tracks,
	})
}

func (s *Server) handleTrackEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid track id"})
		return
	}

	edit, err := s.tracks.Edit(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFound(w, "track", edit)
}

func (s *Server) handleTrackCreate(w http.ResponseWriter, r *http.Request) {
	var edit store.TrackEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	id, err := s.tracks.Create(r.Context(), edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, r, id)
}

func (s *Server) handleTrackUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid track id"})
		return
	}

	var edit store.TrackEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	updated, err := s.tracks.Update(r.Context(), id, edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeChanged(w, "track", updated)
}

func (s *Server) handleTrackDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid track id"})
		return
	}

	deleted, err := s.tracks.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeChanged(w, "track", deleted)
}
