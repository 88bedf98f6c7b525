package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/peopled/peopled/internal/store"
)

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var draft store.Draft
	if err := decodeJSONBody(r, &draft); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	person, err := s.store.Create(draft)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)
	writeJSON(w, http.StatusOK, s.store.List(skip, limit))
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	person, err := s.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var update store.Update
	if err := decodeJSONBody(r, &update); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	person, err := s.store.Update(id, update)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path segment, writing a 422 when it is not an
// integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "person id must be an integer")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// writeStoreError maps store errors onto REST status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
