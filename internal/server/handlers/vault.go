package handlers

import (
	"net/http"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

const vaultResource = "Password"

// ListPasswords returns the caller's vault entries. Passwords stay encrypted.
func (h *Handlers) ListPasswords(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	entries, err := h.vault.List(r.Context(), userID)
	if err != nil {
		h.rw.HandleError(w, r, err, vaultResource, "Error fetching passwords")
		return
	}

	h.rw.List(w, r, entries, len(entries))
}

// GetPassword returns one entry with its password decrypted.
func (h *Handlers) GetPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	entry, err := h.vault.Get(r.Context(), userID, h.id(r))
	if err != nil {
		h.rw.HandleError(w, r, err, vaultResource, "Error fetching password")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "", entry)
}

func (h *Handlers) CreatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.CreateVaultEntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.vault.Create(r.Context(), userID, req)
	if err != nil {
		h.rw.HandleError(w, r, err, vaultResource, "Error saving password")
		return
	}

	h.rw.Data(w, r, http.StatusCreated, "Password saved successfully", entry)
}

func (h *Handlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.UpdateVaultEntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.vault.Update(r.Context(), userID, h.id(r), req)
	if err != nil {
		h.rw.HandleError(w, r, err, vaultResource, "Error updating password")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "Password updated successfully", entry)
}

func (h *Handlers) DeletePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.vault.Delete(r.Context(), userID, h.id(r)); err != nil {
		h.rw.HandleError(w, r, err, vaultResource, "Error deleting password")
		return
	}

	h.rw.Message(w, r, http.StatusOK, "Password deleted successfully")
}
