package handlers

import (
	"net/http"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

const websiteResource = "Website"

// ListWebsites accepts the optional query filters category and isFavorite.
// Any isFavorite value other than "true" selects non-favorites.
func (h *Handlers) ListWebsites(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.WebsiteFilter{Category: models.WebsiteCategory(q.Get("category"))}
	if q.Has("isFavorite") {
		fav := q.Get("isFavorite") == "true"
		filter.IsFavorite = &fav
	}

	sites, err := h.websites.List(r.Context(), userID, filter)
	if err != nil {
		h.rw.HandleError(w, r, err, websiteResource, "Error fetching websites")
		return
	}

	h.rw.List(w, r, sites, len(sites))
}

func (h *Handlers) GetWebsite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	site, err := h.websites.Get(r.Context(), userID, h.id(r))
	if err != nil {
		h.rw.HandleError(w, r, err, websiteResource, "Error fetching website")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "", site)
}

func (h *Handlers) CreateWebsite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.CreateWebsiteRequest
	if !h.decode(w, r, &req) {
		return
	}

	site, err := h.websites.Create(r.Context(), userID, req)
	if err != nil {
		h.rw.HandleError(w, r, err, websiteResource, "Error saving website")
		return
	}

	h.rw.Data(w, r, http.StatusCreated, "Website saved successfully", site)
}

func (h *Handlers) UpdateWebsite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.UpdateWebsiteRequest
	if !h.decode(w, r, &req) {
		return
	}

	site, err := h.websites.Update(r.Context(), userID, h.id(r), req)
	if err != nil {
		h.rw.HandleError(w, r, err, websiteResource, "Error updating website")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "Website updated successfully", site)
}

func (h *Handlers) DeleteWebsite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.websites.Delete(r.Context(), userID, h.id(r)); err != nil {
		h.rw.HandleError(w, r, err, websiteResource, "Error deleting website")
		return
	}

	h.rw.Message(w, r, http.StatusOK, "Website deleted successfully")
}
