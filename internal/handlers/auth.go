package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/vidronox/fleetcheck/internal/auth"
	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *auth.Service
	profiles    db.ProfileCollection
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, profiles db.ProfileCollection) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		profiles:    profiles,
	}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var loginReq models.LoginRequest
	if err := json.Unmarshal(body, &loginReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if loginReq.Username == "" || loginReq.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.FindProfileByUsername(r.Context(), loginReq.Username)
	if err != nil {
		http.Error(w, "Usuário ou senha incorretos", http.StatusUnauthorized)
		return
	}

	if !profile.IsActive {
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
		return
	}

	if !h.authService.CheckPassword(loginReq.Password, profile.PasswordHash) {
		http.Error(w, "Usuário ou senha incorretos", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(profile)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if err := h.profiles.UpdateLastLogin(r.Context(), profile.ID.Hex()); err != nil {
		// Non-fatal, the session is already established
		log.WithError(err).Warn("failed to update last login")
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:   token,
		Profile: *profile,
	})
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	profile, err := h.profiles.FindProfileByID(r.Context(), claims.UserID)
	if err != nil {
		storeError(w, err, "Profile not found")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile lets the owner edit name, phone, avatar and password.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	update := bson.M{}
	if req.FullName != "" {
		update["full_name"] = req.FullName
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if req.AvatarURL != "" {
		update["avatar_url"] = req.AvatarURL
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
	if len(update) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.profiles.UpdateProfile(r.Context(), claims.UserID, update); err != nil {
		storeError(w, err, "Profile not found")
		return
	}

	profile, err := h.profiles.FindProfileByID(r.Context(), claims.UserID)
	if err != nil {
		storeError(w, err, "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
