package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPageRoutes(mux *http.ServeMux, handler *Handler, shell http.Handler) {
	mux.Handle("GET /{$}", shell)
	mux.HandleFunc("GET /ws", handler.PageSocket)
	mux.HandleFunc("GET /v1/page/snapshot", handler.Snapshot)
}
