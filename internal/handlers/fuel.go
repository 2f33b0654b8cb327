package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/events"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FuelHandler handles fuel log registration and history.
type FuelHandler struct {
	fuelLogs  db.FuelLogCollection
	vehicles  db.VehicleCollection
	publisher events.Publisher
}

// NewFuelHandler creates a new fuel handler.
func NewFuelHandler(fuelLogs db.FuelLogCollection, vehicles db.VehicleCollection, publisher events.Publisher) *FuelHandler {
	return &FuelHandler{fuelLogs: fuelLogs, vehicles: vehicles, publisher: publisher}
}

// Create registers a fuel log for the authenticated driver.
func (h *FuelHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var input models.FuelLogInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Mileage <= 0 || input.Liters <= 0 || input.Value <= 0 {
		http.Error(w, "Mileage, liters and value must be positive", http.StatusBadRequest)
		return
	}
	if input.Date == "" {
		http.Error(w, "Date is required", http.StatusBadRequest)
		return
	}

	vehicleOID, err := primitive.ObjectIDFromHex(input.VehicleID)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}
	driverOID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), input.VehicleID)
	if err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}

	id, err := h.fuelLogs.InsertFuelLog(r.Context(), models.FuelLog{
		VehicleID: vehicleOID,
		DriverID:  driverOID,
		Mileage:   input.Mileage,
		Liters:    input.Liters,
		Value:     input.Value,
		Date:      input.Date,
	})
	if err != nil {
		http.Error(w, "Failed to save fuel log", http.StatusInternalServerError)
		return
	}

	// Keep the fleet odometer current; the fuel log itself is the record
	// of truth, so a stale reading is only logged.
	if input.Mileage > vehicle.Mileage {
		if err := h.vehicles.UpdateMileage(r.Context(), input.VehicleID, input.Mileage); err != nil {
			log.WithError(err).WithField("vehicle_id", input.VehicleID).Warn("failed to update vehicle mileage")
		}
	}

	h.publisher.PublishChange("fuel_logs", events.ActionInsert, id)

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// History returns the driver's most recent fuel logs with vehicle summaries.
func (h *FuelHandler) History(w http.ResponseWriter, r *http.Request) {
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

	logs, err := h.fuelLogs.FindFuelLogsByDriver(r.Context(), claims.UserID, limit)
	if err != nil {
		http.Error(w, "Failed to fetch fuel logs", http.StatusInternalServerError)
		return
	}

	vehicles, err := h.vehicles.FindVehicles(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to fetch vehicles", http.StatusInternalServerError)
		return
	}
	summaries := make(map[primitive.ObjectID]*models.VehicleSummary, len(vehicles))
	for _, v := range vehicles {
		summaries[v.ID] = &models.VehicleSummary{Brand: v.Brand, Model: v.Model, Plate: v.Plate}
	}

	out := make([]models.FuelLogWithVehicle, 0, len(logs))
	for _, fl := range logs {
		out = append(out, models.FuelLogWithVehicle{
			FuelLog: fl,
			Vehicle: summaries[fl.VehicleID],
		})
	}
	writeJSON(w, http.StatusOK, out)
}
