package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationHandler_List(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("driver sees only targeted notifications", func(t *testing.T) {
		notifications := new(MockNotificationCollection)
		handler := NewNotificationHandler(notifications)

		uid := userID
		notifications.On("FindNotificationsForUser", mock.Anything, userID.Hex(), false, int64(5)).
			Return([]models.Notification{
				{UserID: &uid, Title: "Checklist Resolvido", Read: false},
				{UserID: &uid, Title: "Avaria Resolvida", Read: true},
			}, nil)

		req := httptest.NewRequest("GET", "/api/notifications", nil)
		req = withClaims(req, driverClaims(userID.Hex()))
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got models.NotificationList
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Len(t, got.Notifications, 2)
		assert.Equal(t, 1, got.UnreadCount)
		notifications.AssertExpectations(t)
	})

	t.Run("supervisor also sees broadcasts", func(t *testing.T) {
		notifications := new(MockNotificationCollection)
		handler := NewNotificationHandler(notifications)

		notifications.On("FindNotificationsForUser", mock.Anything, userID.Hex(), true, int64(5)).
			Return([]models.Notification{{Title: "Novo Checklist Recebido"}}, nil)

		req := httptest.NewRequest("GET", "/api/notifications", nil)
		req = withClaims(req, supervisorClaims(userID.Hex()))
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		notifications.AssertExpectations(t)
	})

	t.Run("honours an explicit limit", func(t *testing.T) {
		notifications := new(MockNotificationCollection)
		handler := NewNotificationHandler(notifications)

		notifications.On("FindNotificationsForUser", mock.Anything, userID.Hex(), false, int64(20)).
			Return([]models.Notification{}, nil)

		req := httptest.NewRequest("GET", "/api/notifications?limit=20", nil)
		req = withClaims(req, driverClaims(userID.Hex()))
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		notifications.AssertExpectations(t)
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	userID := primitive.NewObjectID()

	notifications := new(MockNotificationCollection)
	handler := NewNotificationHandler(notifications)

	notifications.On("MarkAllRead", mock.Anything, userID.Hex(), false).Return(nil)

	req := httptest.NewRequest("PUT", "/api/notifications/read-all", nil)
	req = withClaims(req, driverClaims(userID.Hex()))
	w := httptest.NewRecorder()

	handler.MarkAllRead(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	notifications.AssertExpectations(t)
}
