package httpapi

import (
	"net/http"
	"strconv"

	"musiccatalog/internal/store"
)

// handleAlbumsList serves a page of albums, optionally narrowed to one artist via artistId.
func (s *Server) handleAlbumsList(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	req := store.AlbumPageRequest{PageRequest: pageReq}
	if raw := r.URL.Query().Get("artistId"); raw != "" {
		artistID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || artistID <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artistId parameter"})
			return
		}
		req.ArtistID = &artistID
	}

	page, err := s.albums.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleAlbumView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	view, err := s.albums.View(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFound(w, "album", view)
}

func (s *Server) handleAlbumEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	edit, err := s.albums.Edit(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFound(w, "album", edit)
}

func (s *Server) handleAlbumCreate(w http.ResponseWriter, r *http.Request) {
	var edit store.AlbumEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	id, err := s.albums.Create(r.Context(), edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, r, id)
}

func (s *Server) handleAlbumUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	var edit store.AlbumEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	updated, err := s.albums.Update(r.Context(), id, edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeChanged(w, "album", updated)
}

func (s *Server) handleAlbumDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid album id"})
		return
	}

	deleted, err := s.albums.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeChanged(w, "album", deleted)
}
