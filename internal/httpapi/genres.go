package httpapi

import (
	"net/http"

	"musiccatalog/internal/store"
)

func (s *Server) handleGenresList(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	page, err := s.genres.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGenreNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.genres.Names(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGenreView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid genre id"})
		return
	}

	view, err := s.genres.View(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFound(w, "genre", view)
}

func (s *Server) handleGenreEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid genre id"})
		return
	}

	edit, err := s.genres.Edit(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeFound(w, "genre", edit)
}

func (s *Server) handleGenreCreate(w http.ResponseWriter, r *http.Request) {
	var edit store.GenreEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	id, err := s.genres.Create(r.Context(), edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, r, id)
}

func (s *Server) handleGenreUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid genre id"})
		return
	}

	var edit store.GenreEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	updated, err := s.genres.Update(r.Context(), id, edit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeChanged(w, "genre", updated)
}

func (s *Server) handleGenreDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid genre id"})
		return
	}

	deleted, err := s.genres.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeChanged(w, "genre", deleted)
}
