package apiserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/klubi/kubesim/pkg/apierrors"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// requestScope extracts the (namespace, kind) pair a request addresses.
// Cluster-scoped routes have no namespace variable; custom-resource routes
// qualify the kind with the group and version from the path.
func requestScope(r *http.Request) (namespace, kind string) {
	vars := mux.Vars(r)
	namespace = vars["namespace"]
	kind = vars["kind"]
	if group, ok := vars["group"]; ok {
		kind = v1.CustomKind(group, vars["version"], kind)
	}
	return namespace, kind
}

// writeJSON serialises data as JSON and writes it to the response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps an error onto an HTTP status and a JSON error envelope.
// StatusError codes (404, 409) pass through; anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var statusErr *apierrors.StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.Code
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeBody decodes the request body into the concrete type for kind.
func decodeBody(r *http.Request, kind string) (v1.Object, error) {
	obj := v1.New(kind)
	if err := json.NewDecoder(r.Body).Decode(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// Resources
// ---------------------------------------------------------------------------

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	namespace, kind := requestScope(r)

	obj, err := decodeBody(r, kind)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	created, err := s.cluster.Create(namespace, kind, obj)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	namespace, kind := requestScope(r)
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	obj, err := s.cluster.Get(namespace, kind, name)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, obj)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	namespace, kind := requestScope(r)
	selector := r.URL.Query().Get("labelSelector")

	s.mu.Lock()
	items, err := s.cluster.List(namespace, kind, selector)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	namespace, kind := requestScope(r)
	name := mux.Vars(r)["name"]

	obj, err := decodeBody(r, kind)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	updated, err := s.cluster.Update(namespace, kind, name, obj)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	namespace, kind := requestScope(r)
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	err := s.cluster.Delete(namespace, kind, name)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Cluster introspection
// ---------------------------------------------------------------------------

func (s *Server) handleListNamespaces(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	names := s.cluster.Namespaces()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	events := s.cluster.Events()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.cluster.Reset()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("cluster state reset")
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Apply (generic create-or-update)
// ---------------------------------------------------------------------------

// applyEnvelope addresses the resource carried in an apply body.
type applyEnvelope struct {
	Namespace string          `json:"namespace"`
	Kind      string          `json:"kind"`
	Object    json.RawMessage `json:"object"`
}

// handleApply creates the resource, falling back to an update when the
// (namespace, kind, name) is already taken.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var envelope applyEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if envelope.Kind == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind is required"})
		return
	}

	obj := v1.New(envelope.Kind)
	if err := json.Unmarshal(envelope.Object, obj); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.cluster.Create(envelope.Namespace, envelope.Kind, obj)
	if err == nil {
		s.writeJSON(w, http.StatusCreated, created)
		return
	}
	if !apierrors.IsConflict(err) {
		s.writeError(w, err)
		return
	}

	updated, err := s.cluster.Update(envelope.Namespace, envelope.Kind, obj.GetObjectMeta().Name, obj)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}
