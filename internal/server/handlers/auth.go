package handlers

import (
	"net/http"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.users.Register(r.Context(), req)
	if err != nil {
		h.rw.HandleError(w, r, err, "User", "Error registering user")
		return
	}

	h.logger.Info(r.Context(), "user registered", "user_id", result.User.ID)
	h.rw.Data(w, r, http.StatusCreated, "User registered successfully", result)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.users.Login(r.Context(), req)
	if err != nil {
		h.rw.HandleError(w, r, err, "User", "Error logging in")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "Login successful", result)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.users.CurrentUser(r.Context(), userID)
	if err != nil {
		h.rw.HandleError(w, r, err, "User", "Error fetching user data")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "", map[string]any{"user": user})
}

func (h *Handlers) SetVaultPasskey(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.PasskeyRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.users.SetVaultPasskey(r.Context(), userID, req.Passkey); err != nil {
		h.rw.HandleError(w, r, err, "User", "Error setting vault passkey")
		return
	}

	h.rw.Message(w, r, http.StatusOK, "Vault passkey set successfully")
}

func (h *Handlers) VerifyVaultPasskey(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.PasskeyRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.users.VerifyVaultPasskey(r.Context(), userID, req.Passkey); err != nil {
		h.rw.HandleError(w, r, err, "User", "Error verifying passkey")
		return
	}

	h.rw.Message(w, r, http.StatusOK, "Passkey verified successfully")
}

// Export uploads a snapshot of the caller's data and returns a download
// link.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	if h.exports == nil {
		h.NotFound(w, r)
		return
	}

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.exports.Export(r.Context(), userID)
	if err != nil {
		h.rw.HandleError(w, r, err, "User", "Error exporting data")
		return
	}

	h.logger.Info(r.Context(), "data exported", "user_id", userID, "key", result.Key)
	h.rw.Data(w, r, http.StatusOK, "Export created successfully", result)
}
