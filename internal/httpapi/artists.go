package httpapi

import (
	"net/http"

	"musiccatalog/internal/store"
)

func (s *Server) handleArtistsList(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	page, err := s.artists.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleArtistNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.artists.Names(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleArtistView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	view, err := s.artists.View(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFound(w, "artist", view)
}

func (s *Server) handleArtistEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	edit, err := s.artists.Edit(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFound(w, "artist", edit)
}

func (s *Server) handleArtistCreate(w http.ResponseWriter, r *http.Request) {
	var edit store.ArtistEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	id, err := s.artists.Create(r.Context(), edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, r, id)
}

func (s *Server) handleArtistUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	var edit store.ArtistEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	updated, err := s.artists.Update(r.Context(), id, edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeChanged(w, "artist", updated)
}

func (s *Server) handleArtistDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	deleted, err := s.artists.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeChanged(w, "artist", deleted)
}
