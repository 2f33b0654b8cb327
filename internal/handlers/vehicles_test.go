package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vidronox/fleetcheck/internal/events"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newVehicleHandler() (*VehicleHandler, *MockVehicleCollection, *MockChecklistCollection) {
	vehicles := new(MockVehicleCollection)
	checklists := new(MockChecklistCollection)
	handler := NewVehicleHandler(vehicles, checklists, nil, events.NopPublisher{})
	return handler, vehicles, checklists
}

func TestVehicleHandler_Available(t *testing.T) {
	free := models.Vehicle{ID: primitive.NewObjectID(), Brand: "Toyota", Model: "Corolla", Plate: "ABC-1234", Status: models.VehicleActive}
	checkedToday := models.Vehicle{ID: primitive.NewObjectID(), Brand: "Ford", Model: "Ranger", Plate: "XYZ-9876", Status: models.VehicleActive}
	claimedByOther := models.Vehicle{ID: primitive.NewObjectID(), Brand: "VW", Model: "Gol", Plate: "KJH-4422", Status: models.VehicleActive, CurrentDriver: "Maria Santos"}
	claimedByMe := models.Vehicle{ID: primitive.NewObjectID(), Brand: "Fiat", Model: "Strada", Plate: "FRT-9090", Status: models.VehicleActive, CurrentDriver: "João Silva"}

	t.Run("filters checked and claimed vehicles", func(t *testing.T) {
		handler, vehicles, checklists := newVehicleHandler()

		vehicles.On("FindVehicles", mock.Anything, bson.M{"status": models.VehicleActive}).
			Return([]models.Vehicle{free, checkedToday, claimedByOther, claimedByMe}, nil)
		today := time.Now().Format("2006-01-02")
		checklists.On("FindChecklists", mock.Anything, bson.M{"date": today}).
			Return([]models.Checklist{{VehicleID: checkedToday.ID, Date: today}}, nil)

		req := httptest.NewRequest("GET", "/api/vehicles/available", nil)
		req = withClaims(req, driverClaims(primitive.NewObjectID().Hex()))
		w := httptest.NewRecorder()

		handler.Available(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got []models.Vehicle
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		plates := make([]string, 0, len(got))
		for _, v := range got {
			plates = append(plates, v.Plate)
		}
		// Checked today is blocked for everyone; a leftover claim only
		// blocks other drivers.
		assert.ElementsMatch(t, []string{"ABC-1234", "FRT-9090"}, plates)
	})

	t.Run("no vehicles yields empty list", func(t *testing.T) {
		handler, vehicles, checklists := newVehicleHandler()

		vehicles.On("FindVehicles", mock.Anything, mock.Anything).Return([]models.Vehicle{}, nil)
		checklists.On("FindChecklists", mock.Anything, mock.Anything).Return([]models.Checklist{}, nil)

		req := httptest.NewRequest("GET", "/api/vehicles/available", nil)
		req = withClaims(req, driverClaims(primitive.NewObjectID().Hex()))
		w := httptest.NewRecorder()

		handler.Available(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestVehicleHandler_Create(t *testing.T) {
	t.Run("creates with default status", func(t *testing.T) {
		handler, vehicles, _ := newVehicleHandler()
		id := primitive.NewObjectID()

		vehicles.On("InsertVehicle", mock.Anything, mock.MatchedBy(func(v models.Vehicle) bool {
			return v.Status == models.VehicleActive && v.Plate == "ABC-1234"
		})).Return(id.Hex(), nil)
		vehicles.On("FindVehicleByID", mock.Anything, id.Hex()).
			Return(&models.Vehicle{ID: id, Brand: "Toyota", Model: "Corolla", Plate: "ABC-1234", Status: models.VehicleActive}, nil)

		body, _ := json.Marshal(models.VehicleInput{Brand: "Toyota", Model: "Corolla", Year: 2022, Plate: "ABC-1234", Mileage: 15000})
		req := httptest.NewRequest("POST", "/api/vehicles", bytes.NewBuffer(body))
		req = withClaims(req, supervisorClaims(primitive.NewObjectID().Hex()))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		vehicles.AssertExpectations(t)
	})

	t.Run("missing plate is rejected", func(t *testing.T) {
		handler, vehicles, _ := newVehicleHandler()

		body, _ := json.Marshal(models.VehicleInput{Brand: "Toyota", Model: "Corolla"})
		req := httptest.NewRequest("POST", "/api/vehicles", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		vehicles.AssertNotCalled(t, "InsertVehicle", mock.Anything, mock.Anything)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		handler, vehicles, _ := newVehicleHandler()

		body, _ := json.Marshal(models.VehicleInput{Brand: "Toyota", Model: "Corolla", Plate: "ABC-1234", Status: "scrapped"})
		req := httptest.NewRequest("POST", "/api/vehicles", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		vehicles.AssertNotCalled(t, "InsertVehicle", mock.Anything, mock.Anything)
	})
}

func TestVehicleHandler_List(t *testing.T) {
	t.Run("search builds a case-insensitive filter", func(t *testing.T) {
		handler, vehicles, _ := newVehicleHandler()

		vehicles.On("FindVehicles", mock.Anything, mock.MatchedBy(func(filter bson.M) bool {
			_, hasOr := filter["$or"]
			return hasOr
		})).Return([]models.Vehicle{}, nil)

		req := httptest.NewRequest("GET", "/api/vehicles?q=corolla", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		vehicles.AssertExpectations(t)
	})
}
