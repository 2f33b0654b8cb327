package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/escalation"
	"github.com/vidronox/fleetcheck/internal/events"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DamageHandler handles damage reports and the supervisor escalation feed.
type DamageHandler struct {
	damages       db.DamageCollection
	vehicles      db.VehicleCollection
	notifications db.NotificationCollection
	monitor       *escalation.Monitor
	publisher     events.Publisher
}

// NewDamageHandler creates a new damage handler.
func NewDamageHandler(damages db.DamageCollection, vehicles db.VehicleCollection, notifications db.NotificationCollection, monitor *escalation.Monitor, publisher events.Publisher) *DamageHandler {
	return &DamageHandler{
		damages:       damages,
		vehicles:      vehicles,
		notifications: notifications,
		monitor:       monitor,
		publisher:     publisher,
	}
}

// Create files a new damage report and notifies supervisors.
func (h *DamageHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var input models.DamageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Description == "" {
		http.Error(w, "Description is required", http.StatusBadRequest)
		return
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.IsValidDamagePriority(input.Priority) {
		http.Error(w, "Invalid priority", http.StatusBadRequest)
		return
	}

	vehicleOID, err := primitive.ObjectIDFromHex(input.VehicleID)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}
	reporterOID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), input.VehicleID)
	if err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}

	id, err := h.damages.InsertDamage(r.Context(), models.Damage{
		VehicleID:   vehicleOID,
		ReportedBy:  reporterOID,
		Description: input.Description,
		PhotoURL:    input.PhotoURL,
		Priority:    input.Priority,
		Status:      models.DamagePending,
	})
	if err != nil {
		http.Error(w, "Failed to save damage report", http.StatusInternalServerError)
		return
	}

	err = h.notifications.InsertNotification(r.Context(), models.Notification{
		Title:   "Nova Avaria Reportada",
		Message: "O motorista " + claims.FullName + " reportou uma avaria no veículo " + vehicle.Plate + ".",
		Type:    models.NotificationDamage,
	})
	if err != nil {
		log.WithError(err).Warn("failed to notify supervisors about damage")
	}

	h.publisher.PublishChange("damages", events.ActionInsert, id)

	created, err := h.damages.FindDamageByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Damage not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List returns damage reports joined with vehicle summaries, newest first.
func (h *DamageHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	damages, err := h.damages.FindDamages(r.Context(), filter, 0)
	if err != nil {
		http.Error(w, "Failed to fetch damages", http.StatusInternalServerError)
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

	out := make([]models.DamageWithVehicle, 0, len(damages))
	for _, d := range damages {
		out = append(out, models.DamageWithVehicle{
			Damage:  d,
			Vehicle: summaries[d.VehicleID],
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// canTouch reports whether claims may edit or delete damage: supervisors
// always, drivers only their own still-pending reports.
func canTouch(claims *models.Claims, damage *models.Damage) bool {
	if claims.Role == models.RoleSupervisor {
		return true
	}
	return damage.ReportedBy.Hex() == claims.UserID && damage.Status == models.DamagePending
}

// Update edits a damage report.
func (h *DamageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	damage, err := h.damages.FindDamageByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Damage not found")
		return
	}
	if !canTouch(claims, damage) {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	var input models.DamageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	update := bson.M{}
	if input.Description != "" {
		update["description"] = input.Description
	}
	if input.Priority != "" {
		if !models.IsValidDamagePriority(input.Priority) {
			http.Error(w, "Invalid priority", http.StatusBadRequest)
			return
		}
		update["priority"] = input.Priority
	}
	if input.PhotoURL != "" {
		update["photo_url"] = input.PhotoURL
	}
	if len(update) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.damages.UpdateDamage(r.Context(), id, update); err != nil {
		storeError(w, err, "Damage not found")
		return
	}

	h.publisher.PublishChange("damages", events.ActionUpdate, id)

	updated, err := h.damages.FindDamageByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Damage not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Resolve marks a damage as resolved and notifies the reporter.
func (h *DamageHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	damage, err := h.damages.FindDamageByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Damage not found")
		return
	}

	if err := h.damages.UpdateDamage(r.Context(), id, bson.M{"status": models.DamageResolved}); err != nil {
		storeError(w, err, "Damage not found")
		return
	}

	reporter := damage.ReportedBy
	err = h.notifications.InsertNotification(r.Context(), models.Notification{
		UserID:  &reporter,
		Title:   "Avaria Resolvida",
		Message: "A avaria que você reportou foi resolvida: " + damage.Description,
		Type:    models.NotificationDamage,
	})
	if err != nil {
		log.WithError(err).Warn("failed to notify reporter")
	}

	h.publisher.PublishChange("damages", events.ActionUpdate, id)

	updated, err := h.damages.FindDamageByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Damage not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a damage report.
func (h *DamageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	damage, err := h.damages.FindDamageByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Damage not found")
		return
	}
	if !canTouch(claims, damage) {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.damages.DeleteDamage(r.Context(), id); err != nil {
		storeError(w, err, "Damage not found")
		return
	}

	h.publisher.PublishChange("damages", events.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

// EscalationResponse is the recurring reminder payload.
type EscalationResponse struct {
	Damage       *models.Damage         `json:"damage"`
	Vehicle      *models.VehicleSummary `json:"vehicle,omitempty"`
	WhatsAppLink string                 `json:"whatsapp_link,omitempty"`
}

// Escalation returns the damage the supervisor should be reminded about
// right now, if any.
func (h *DamageHandler) Escalation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	candidate := h.monitor.Candidate(claims.UserID, time.Now())
	if candidate == nil {
		writeJSON(w, http.StatusOK, EscalationResponse{})
		return
	}

	resp := EscalationResponse{Damage: candidate}
	if vehicle, err := h.vehicles.FindVehicleByID(r.Context(), candidate.VehicleID.Hex()); err == nil {
		resp.Vehicle = &models.VehicleSummary{Brand: vehicle.Brand, Model: vehicle.Model, Plate: vehicle.Plate}
		resp.WhatsAppLink = escalation.WhatsAppLink(candidate, vehicle.Plate)
	} else {
		resp.WhatsAppLink = escalation.WhatsAppLink(candidate, "desconhecido")
	}
	writeJSON(w, http.StatusOK, resp)
}

// AcknowledgeEscalation suppresses a damage reminder for this session.
func (h *DamageHandler) AcknowledgeEscalation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		DamageID string `json:"damage_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DamageID == "" {
		http.Error(w, "damage_id is required", http.StatusBadRequest)
		return
	}

	h.monitor.Acknowledge(claims.UserID, req.DamageID)
	w.WriteHeader(http.StatusNoContent)
}
