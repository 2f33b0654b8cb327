package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vidronox/fleetcheck/internal/auth"
	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/events"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// UserHandler is the supervisor-only account administration surface. It
// replaces the privileged server-side functions the browser client had to
// call for identity creation and deletion.
type UserHandler struct {
	authService *auth.Service
	profiles    db.ProfileCollection
	publisher   events.Publisher
}

// NewUserHandler creates a new user administration handler.
func NewUserHandler(authService *auth.Service, profiles db.ProfileCollection, publisher events.Publisher) *UserHandler {
	return &UserHandler{
		authService: authService,
		profiles:    profiles,
		publisher:   publisher,
	}
}

// List returns every profile.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.FindProfiles(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

// Create provisions a new account.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidateUsername(req.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidatePassword(req.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidRole(req.Role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if req.FullName == "" {
		http.Error(w, "Full name is required", http.StatusBadRequest)
		return
	}

	if _, err := h.profiles.FindProfileByUsername(r.Context(), req.Username); err == nil {
		http.Error(w, "Username already exists", http.StatusConflict)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	profile := models.Profile{
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		Phone:        req.Phone,
		IsActive:     true,
	}

	id, err := h.profiles.InsertProfile(r.Context(), profile)
	if err != nil {
		storeError(w, err, "Profile not found")
		return
	}

	h.publisher.PublishChange("profiles", events.ActionInsert, id)

	created, err := h.profiles.FindProfileByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Profile not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update edits an account's credentials, role or contact data.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	update := bson.M{}
	if req.Username != "" {
		if err := h.authService.ValidateUsername(req.Username); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		update["username"] = req.Username
	}
	if req.Password != "" {
		if err := h.authService.ValidatePassword(req.Password); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hash, err := h.authService.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}
		update["password_hash"] = hash
	}
	if req.FullName != "" {
		update["full_name"] = req.FullName
	}
	if req.Role != "" {
		if !models.IsValidRole(req.Role) {
			http.Error(w, "Invalid role", http.StatusBadRequest)
			return
		}
		update["role"] = req.Role
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}
	if len(update) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.profiles.UpdateProfile(r.Context(), id, update); err != nil {
		storeError(w, err, "User not found")
		return
	}

	h.publisher.PublishChange("profiles", events.ActionUpdate, id)

	profile, err := h.profiles.FindProfileByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Delete removes an account. Supervisors cannot delete themselves.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if claims.UserID == id {
		http.Error(w, "Cannot delete your own account", http.StatusForbidden)
		return
	}

	if err := h.profiles.DeleteProfile(r.Context(), id); err != nil {
		storeError(w, err, "User not found")
		return
	}

	h.publisher.PublishChange("profiles", events.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}
