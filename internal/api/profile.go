package api

import (
	"net/http"

	"github.com/erazemk/lostmate/internal/model"
	"github.com/erazemk/lostmate/internal/query"
	"github.com/erazemk/lostmate/internal/store"
)

// ProfileHandler serves the current user and reference data.
type ProfileHandler struct {
	Store      *store.Store
	Categories []string
}

type profileResponse struct {
	User     model.User    `json:"user"`
	Initials string        `json:"initials"`
	Items    []model.Item  `json:"items"`
	Stats    query.Summary `json:"stats"`
}

// Me handles GET /api/me: the user, their listings newest first and counts.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	if h.Store.Loading() {
		jsonError(w, http.StatusServiceUnavailable, "items are still loading")
		return
	}

	user := h.Store.User()
	items := h.Store.GetByUser(user.ID)
	if items == nil {
		items = []model.Item{}
	}
	query.SortByDate(items)

	jsonResponse(w, http.StatusOK, profileResponse{
		User:     user,
		Initials: user.Initials(),
		Items:    items,
		Stats:    query.Summarize(items),
	})
}

// ListCategories handles GET /api/categories.
func (h *ProfileHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.Categories
	if categories == nil {
		categories = []string{}
	}
	jsonResponse(w, http.StatusOK, categories)
}
