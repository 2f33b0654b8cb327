package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/events"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxPhotoSize = 10 << 20 // 10 MiB

// VehicleHandler handles the vehicle CRUD grid and photo uploads.
type VehicleHandler struct {
	vehicles   db.VehicleCollection
	checklists db.ChecklistCollection
	photos     db.PhotoStore
	publisher  events.Publisher
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(vehicles db.VehicleCollection, checklists db.ChecklistCollection, photos db.PhotoStore, publisher events.Publisher) *VehicleHandler {
	return &VehicleHandler{
		vehicles:   vehicles,
		checklists: checklists,
		photos:     photos,
		publisher:  publisher,
	}
}

// List returns the fleet, optionally filtered by a search term matching
// brand, model or plate.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		regex := bson.M{"$regex": q, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"brand": regex},
			bson.M{"model": regex},
			bson.M{"plate": regex},
		}
	}

	vehicles, err := h.vehicles.FindVehicles(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch vehicles", http.StatusInternalServerError)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// Available returns the vehicles the calling driver may start a checklist
// on: active, not yet checked today, and not claimed by someone else.
func (h *VehicleHandler) Available(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	vehicles, err := h.vehicles.FindVehicles(r.Context(), bson.M{"status": models.VehicleActive})
	if err != nil {
		http.Error(w, "Failed to fetch vehicles", http.StatusInternalServerError)
		return
	}

	today := time.Now().Format("2006-01-02")
	checklists, err := h.checklists.FindChecklists(r.Context(), bson.M{"date": today})
	if err != nil {
		http.Error(w, "Failed to fetch checklists", http.StatusInternalServerError)
		return
	}

	checkedToday := make(map[primitive.ObjectID]bool, len(checklists))
	for _, c := range checklists {
		checkedToday[c.VehicleID] = true
	}

	available := []models.Vehicle{}
	for _, v := range vehicles {
		// Any checklist today blocks the vehicle for everyone,
		// regardless of outcome.
		if checkedToday[v.ID] {
			continue
		}
		// A current_driver left over from a previous day only blocks
		// other drivers.
		if v.CurrentDriver != "" && v.CurrentDriver != claims.FullName {
			continue
		}
		available = append(available, v)
	}

	writeJSON(w, http.StatusOK, available)
}

// Create adds a vehicle to the fleet.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Brand == "" || input.Model == "" || input.Plate == "" {
		http.Error(w, "Brand, model and plate are required", http.StatusBadRequest)
		return
	}
	if input.Status == "" {
		input.Status = models.VehicleActive
	}
	if !models.IsValidVehicleStatus(input.Status) {
		http.Error(w, "Invalid vehicle status", http.StatusBadRequest)
		return
	}

	vehicle := models.Vehicle{
		Brand:   input.Brand,
		Model:   input.Model,
		Year:    input.Year,
		Plate:   input.Plate,
		Mileage: input.Mileage,
		Status:  input.Status,
	}

	id, err := h.vehicles.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}

	h.publisher.PublishChange("vehicles", events.ActionInsert, id)

	created, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update edits a vehicle.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var input models.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.IsValidVehicleStatus(input.Status) {
		http.Error(w, "Invalid vehicle status", http.StatusBadRequest)
		return
	}

	update := bson.M{
		"brand":   input.Brand,
		"model":   input.Model,
		"year":    input.Year,
		"plate":   input.Plate,
		"mileage": input.Mileage,
		"status":  input.Status,
	}
	if err := h.vehicles.UpdateVehicle(r.Context(), id, update); err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}

	h.publisher.PublishChange("vehicles", events.ActionUpdate, id)

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// Delete removes a vehicle from the fleet.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.vehicles.DeleteVehicle(r.Context(), id); err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}

	h.publisher.PublishChange("vehicles", events.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto stores a vehicle photo and records its public URL.
func (h *VehicleHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.vehicles.FindVehicleByID(r.Context(), id); err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Photo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	if err := h.photos.UploadPhoto(r.Context(), name, file); err != nil {
		log.WithError(err).Error("failed to store vehicle photo")
		http.Error(w, "Failed to store photo", http.StatusInternalServerError)
		return
	}

	photoURL := "/api/photos/" + name
	if err := h.vehicles.UpdateVehicle(r.Context(), id, bson.M{"photo_url": photoURL}); err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}

	h.publisher.PublishChange("vehicles", events.ActionUpdate, id)
	writeJSON(w, http.StatusOK, map[string]string{"photo_url": photoURL})
}
