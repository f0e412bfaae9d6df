package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erazemk/lostmate/internal/model"
	"github.com/erazemk/lostmate/internal/query"
	"github.com/erazemk/lostmate/internal/store"
)

// ItemsHandler handles listing endpoints.
type ItemsHandler struct {
	Store      *store.Store
	Categories []string
}

// List handles GET /api/items?type=&q=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store.Loading() {
		jsonError(w, http.StatusServiceUnavailable, "items are still loading")
		return
	}

	filter := query.Filter{
		Type: r.URL.Query().Get("type"),
		Text: r.URL.Query().Get("q"),
	}
	if filter.Type != "" && filter.Type != query.TypeAll && !model.ItemType(filter.Type).Valid() {
		jsonError(w, http.StatusBadRequest, "type must be all, lost or found")
		return
	}

	jsonResponse(w, http.StatusOK, query.Apply(h.Store.Items(), filter))
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ItemFields
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req = req.Normalize()
	if !h.validate(w, req) {
		return
	}

	item, err := h.Store.Create(r.Context(), req)
	if err != nil {
		mutationError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store.Loading() {
		jsonError(w, http.StatusServiceUnavailable, "items are still loading")
		return
	}
	item, ok := h.Store.GetByID(r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. Only the fields present in the body
// change, and the resulting listing must still be valid.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.owned(w, r)
	if !ok {
		return
	}

	var patch model.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		jsonError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	patch = trimPatch(patch)

	if patch.Status != nil && *patch.Status != item.Status {
		fieldErrors(w, map[string]string{"status": "status changes only by claiming someone else's listing"})
		return
	}
	if !h.validate(w, patch.Apply(item).Fields()) {
		return
	}

	found, err := h.Store.Update(r.Context(), item.ID, patch)
	if err != nil {
		mutationError(w, err)
		return
	}
	h.respondCurrent(w, item.ID, found)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.owned(w, r)
	if !ok {
		return
	}

	found, err := h.Store.Delete(r.Context(), item.ID)
	if err != nil {
		mutationError(w, err)
		return
	}
	if !found {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Claim handles POST /api/items/{id}/claim. Only someone else's listing can
// be claimed. Claiming twice is not an error.
func (h *ItemsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	item, ok := h.Store.GetByID(r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if item.UserID == h.Store.User().ID {
		jsonError(w, http.StatusForbidden, "you cannot claim your own listing")
		return
	}

	found, err := h.Store.Claim(r.Context(), item.ID)
	if err != nil {
		mutationError(w, err)
		return
	}
	h.respondCurrent(w, item.ID, found)
}

// owned looks up the item named in the path and checks it belongs to the
// current user. It writes the error response itself.
func (h *ItemsHandler) owned(w http.ResponseWriter, r *http.Request) (model.Item, bool) {
	item, ok := h.Store.GetByID(r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return model.Item{}, false
	}
	if item.UserID != h.Store.User().ID {
		jsonError(w, http.StatusForbidden, "only the poster can change this listing")
		return model.Item{}, false
	}
	return item, true
}

// respondCurrent writes the stored state of id after a mutation.
func (h *ItemsHandler) respondCurrent(w http.ResponseWriter, id string, found bool) {
	item, ok := h.Store.GetByID(id)
	if !found || !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

func (h *ItemsHandler) validate(w http.ResponseWriter, f model.ItemFields) bool {
	err := model.ValidateFields(f, h.Categories)
	if err == nil {
		return true
	}
	var fe model.FieldErrors
	if errors.As(err, &fe) {
		fieldErrors(w, fe)
	} else {
		jsonError(w, http.StatusBadRequest, err.Error())
	}
	return false
}

// mutationError maps a store error to a response. The store only fails when
// the request context ends before the mutation is applied.
func mutationError(w http.ResponseWriter, err error) {
	jsonError(w, http.StatusServiceUnavailable, "request cancelled before it was applied: "+err.Error())
}

func trimPatch(p model.ItemPatch) model.ItemPatch {
	for _, field := range []**string{&p.Title, &p.Category, &p.Description, &p.Date, &p.Location, &p.Contact, &p.Image} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
	return p
}
