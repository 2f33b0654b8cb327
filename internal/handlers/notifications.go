package handlers

import (
	"net/http"
	"strconv"

	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
)

// NotificationHandler serves the notification bell.
type NotificationHandler struct {
	notifications db.NotificationCollection
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notifications db.NotificationCollection) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the user's notifications, newest first (5 by default,
// `?limit=` overrides), with the unread count. Broadcast notifications are
// only visible to supervisors.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	limit := int64(5)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	includeBroadcast := claims.Role == models.RoleSupervisor
	notifications, err := h.notifications.FindNotificationsForUser(r.Context(), claims.UserID, includeBroadcast, limit)
	if err != nil {
		http.Error(w, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	writeJSON(w, http.StatusOK, models.NotificationList{
		Notifications: notifications,
		UnreadCount:   unread,
	})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.notifications.MarkRead(r.Context(), id); err != nil {
		storeError(w, err, "Notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead marks every notification visible to the user as read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	includeBroadcast := claims.Role == models.RoleSupervisor
	if err := h.notifications.MarkAllRead(r.Context(), claims.UserID, includeBroadcast); err != nil {
		http.Error(w, "Failed to update notifications", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
