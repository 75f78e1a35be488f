package apiserver

// registerRoutes wires every API endpoint to its handler.
func (s *Server) registerRoutes() {
	// Health
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Cluster introspection
	api.HandleFunc("/namespaces", s.handleListNamespaces).Methods("GET")
	api.HandleFunc("/events", s.handleListEvents).Methods("GET")
	api.HandleFunc("/reset", s.handleReset).Methods("POST")

	// Apply (generic create-or-update)
	api.HandleFunc("/apply", s.handleApply).Methods("POST")

	// Namespaced resources - list supports ?labelSelector=app%3Dweb
	api.HandleFunc("/namespaces/{namespace}/{kind}", s.handleList).Methods("GET")
	api.HandleFunc("/namespaces/{namespace}/{kind}", s.handleCreate).Methods("POST")
	api.HandleFunc("/namespaces/{namespace}/{kind}/{name}", s.handleGet).Methods("GET")
	api.HandleFunc("/namespaces/{namespace}/{kind}/{name}", s.handleUpdate).Methods("PUT")
	api.HandleFunc("/namespaces/{namespace}/{kind}/{name}", s.handleDelete).Methods("DELETE")

	// Cluster-scoped resources
	api.HandleFunc("/cluster/{kind}", s.handleList).Methods("GET")
	api.HandleFunc("/cluster/{kind}", s.handleCreate).Methods("POST")
	api.HandleFunc("/cluster/{kind}/{name}", s.handleGet).Methods("GET")
	api.HandleFunc("/cluster/{kind}/{name}", s.handleUpdate).Methods("PUT")
	api.HandleFunc("/cluster/{kind}/{name}", s.handleDelete).Methods("DELETE")

	// Custom resources, addressed by group and version
	apis := s.router.PathPrefix("/apis/{group}/{version}").Subrouter()
	apis.HandleFunc("/namespaces/{namespace}/{kind}", s.handleList).Methods("GET")
	apis.HandleFunc("/namespaces/{namespace}/{kind}", s.handleCreate).Methods("POST")
	apis.HandleFunc("/namespaces/{namespace}/{kind}/{name}", s.handleGet).Methods("GET")
	apis.HandleFunc("/namespaces/{namespace}/{kind}/{name}", s.handleUpdate).Methods("PUT")
	apis.HandleFunc("/namespaces/{namespace}/{kind}/{name}", s.handleDelete).Methods("DELETE")
	apis.HandleFunc("/cluster/{kind}", s.handleList).Methods("GET")
	apis.HandleFunc("/cluster/{kind}", s.handleCreate).Methods("POST")
	apis.HandleFunc("/cluster/{kind}/{name}", s.handleGet).Methods("GET")
	apis.HandleFunc("/cluster/{kind}/{name}", s.handleUpdate).Methods("PUT")
	apis.HandleFunc("/cluster/{kind}/{name}", s.handleDelete).Methods("DELETE")
}
