package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/erazemk/lostmate/internal/photos"
	"github.com/erazemk/lostmate/internal/store"
)

// NewRouter creates the API router with all endpoints registered. There is
// no authentication: every request acts as the store's user.
func NewRouter(st *store.Store, photoStore *photos.Store, categories []string, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Store: st, Categories: categories}
	profileHandler := &ProfileHandler{Store: st, Categories: categories}
	photosHandler := &PhotosHandler{Photos: photoStore, Log: log}

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("POST /api/items/{id}/claim", itemsHandler.Claim)

	mux.HandleFunc("GET /api/me", profileHandler.Me)
	mux.HandleFunc("GET /api/categories", profileHandler.ListCategories)

	mux.HandleFunc("POST /api/photos", photosHandler.Upload)
	mux.HandleFunc("GET /api/photos/{hash}", photosHandler.Get)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if st.Loading() {
			jsonError(w, http.StatusServiceUnavailable, "loading")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
