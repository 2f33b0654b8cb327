package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/events"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChecklistHandler handles checklist submission, listing, resolution and
// deletion.
type ChecklistHandler struct {
	checklists    db.ChecklistCollection
	items         db.ChecklistItemCollection
	vehicles      db.VehicleCollection
	notifications db.NotificationCollection
	publisher     events.Publisher
}

// NewChecklistHandler creates a new checklist handler.
func NewChecklistHandler(checklists db.ChecklistCollection, items db.ChecklistItemCollection, vehicles db.VehicleCollection, notifications db.NotificationCollection, publisher events.Publisher) *ChecklistHandler {
	return &ChecklistHandler{
		checklists:    checklists,
		items:         items,
		vehicles:      vehicles,
		notifications: notifications,
		publisher:     publisher,
	}
}

// Submit runs the driver submission workflow. The steps are applied in
// order and halt on the first failure; earlier steps are not rolled back.
func (h *ChecklistHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.SubmitChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidateChecklistItems(req.Items) {
		http.Error(w, "Checklist must cover each of the 12 inspection items exactly once", http.StatusBadRequest)
		return
	}

	vehicleOID, err := primitive.ObjectIDFromHex(req.VehicleID)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}
	driverOID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), req.VehicleID)
	if err != nil {
		storeError(w, err, "Vehicle not found")
		return
	}

	// Re-check right before insert: another driver may have just claimed
	// the vehicle. Narrows the race, does not eliminate it; the unique
	// (vehicle_id, date) index backstops a concurrent insert.
	today := time.Now().Format("2006-01-02")
	if _, err := h.checklists.FindChecklistForVehicleOnDate(r.Context(), req.VehicleID, today); err == nil {
		http.Error(w, "Este veículo acabou de ser assumido por outro motorista. Atualize a página e selecione outro veículo.", http.StatusConflict)
		return
	}

	status := models.ChecklistPending
	if models.AllItemsOK(req.Items) {
		status = models.ChecklistResolved
	}

	checklistID, err := h.checklists.InsertChecklist(r.Context(), models.Checklist{
		VehicleID: vehicleOID,
		DriverID:  driverOID,
		Date:      today,
		Status:    status,
	})
	if err != nil {
		if err == db.ErrConflict {
			http.Error(w, "Este veículo acabou de ser assumido por outro motorista. Atualize a página e selecione outro veículo.", http.StatusConflict)
			return
		}
		log.WithError(err).Error("checklist insert failed")
		http.Error(w, "Failed to save checklist", http.StatusInternalServerError)
		return
	}

	checklistOID, _ := primitive.ObjectIDFromHex(checklistID)
	items := make([]models.ChecklistItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.ChecklistItem{
			ChecklistID: checklistOID,
			ItemName:    it.ItemName,
			IsOK:        it.IsOK,
			Notes:       it.Notes,
		})
	}
	if err := h.items.InsertChecklistItems(r.Context(), items); err != nil {
		log.WithError(err).WithField("checklist_id", checklistID).Error("checklist item insert failed")
		http.Error(w, "Failed to save checklist items", http.StatusInternalServerError)
		return
	}

	if err := h.vehicles.SetCurrentDriver(r.Context(), req.VehicleID, claims.FullName); err != nil {
		log.WithError(err).WithField("vehicle_id", req.VehicleID).Error("failed to mark vehicle in use")
		http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		return
	}

	err = h.notifications.InsertNotification(r.Context(), models.Notification{
		Title:   "Novo Checklist Recebido",
		Message: "O motorista " + claims.FullName + " enviou um checklist e assumiu o veículo " + vehicle.Plate + ".",
		Type:    models.NotificationChecklist,
	})
	if err != nil {
		log.WithError(err).Warn("failed to notify supervisors about checklist")
	}

	h.publisher.PublishChange("checklists", events.ActionInsert, checklistID)
	h.publisher.PublishChange("vehicles", events.ActionUpdate, req.VehicleID)

	created, err := h.checklists.FindChecklistByID(r.Context(), checklistID)
	if err != nil {
		storeError(w, err, "Checklist not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List returns checklists joined with vehicle summaries, optionally
// filtered by status. Drivers see only their own; supervisors see all.
func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if claims.Role == models.RoleDriver {
		driverOID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		filter["driver_id"] = driverOID
	}

	checklists, err := h.checklists.FindChecklists(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch checklists", http.StatusInternalServerError)
		return
	}

	summaries, err := h.vehicleSummaries(r)
	if err != nil {
		http.Error(w, "Failed to fetch vehicles", http.StatusInternalServerError)
		return
	}

	out := make([]models.ChecklistWithVehicle, 0, len(checklists))
	for _, c := range checklists {
		out = append(out, models.ChecklistWithVehicle{
			Checklist: c,
			Vehicle:   summaries[c.VehicleID],
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Items returns the item rows of one checklist.
func (h *ChecklistHandler) Items(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.checklists.FindChecklistByID(r.Context(), id); err != nil {
		storeError(w, err, "Checklist not found")
		return
	}

	items, err := h.items.FindItemsByChecklist(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch checklist items", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.ChecklistItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Resolve applies the supervisor repair panel: per-item updates, then a
// recompute of whether every item now passes. Item and checklist updates
// are verified through matched counts; a vanished row aborts with an error.
func (h *ChecklistHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	checklist, err := h.checklists.FindChecklistByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Checklist not found")
		return
	}

	var req models.ResolveChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	for _, upd := range req.Items {
		if err := h.items.UpdateChecklistItem(r.Context(), upd.ID, upd.IsOK, upd.Notes); err != nil {
			storeError(w, err, "Checklist item not found")
			return
		}
	}

	items, err := h.items.FindItemsByChecklist(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch checklist items", http.StatusInternalServerError)
		return
	}
	allOK := true
	for _, it := range items {
		if !it.IsOK {
			allOK = false
			break
		}
	}

	driverID := checklist.DriverID
	if allOK {
		if err := h.checklists.UpdateChecklistStatus(r.Context(), id, models.ChecklistResolved); err != nil {
			storeError(w, err, "Checklist not found")
			return
		}
		if err := h.vehicles.SetCurrentDriver(r.Context(), checklist.VehicleID.Hex(), ""); err != nil {
			log.WithError(err).WithField("vehicle_id", checklist.VehicleID.Hex()).Error("failed to free vehicle")
			http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
			return
		}
		h.notifyDriver(r, driverID, "Checklist Resolvido",
			"Todos os itens reprovados do seu checklist foram corrigidos. O veículo está liberado.")
		h.publisher.PublishChange("vehicles", events.ActionUpdate, checklist.VehicleID.Hex())
	} else {
		h.notifyDriver(r, driverID, "Checklist Atualizado",
			"Itens do seu checklist foram atualizados, mas ainda há pendências.")
	}

	h.publisher.PublishChange("checklists", events.ActionUpdate, id)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"all_ok": allOK,
		"status": statusAfterResolve(allOK),
	})
}

func statusAfterResolve(allOK bool) models.ChecklistStatus {
	if allOK {
		return models.ChecklistResolved
	}
	return models.ChecklistPending
}

// Delete removes a checklist and its items. Items go first so a failure
// never leaves orphaned item rows behind a deleted checklist.
func (h *ChecklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	checklist, err := h.checklists.FindChecklistByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "Checklist not found")
		return
	}
	if claims.Role != models.RoleSupervisor && checklist.DriverID.Hex() != claims.UserID {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.items.DeleteItemsByChecklist(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete checklist items", http.StatusInternalServerError)
		return
	}
	if err := h.checklists.DeleteChecklist(r.Context(), id); err != nil {
		storeError(w, err, "Checklist not found")
		return
	}

	if checklist.Status == models.ChecklistPending {
		if err := h.vehicles.SetCurrentDriver(r.Context(), checklist.VehicleID.Hex(), ""); err != nil {
			log.WithError(err).WithField("vehicle_id", checklist.VehicleID.Hex()).Warn("failed to free vehicle after checklist delete")
		}
	}

	h.publisher.PublishChange("checklists", events.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChecklistHandler) notifyDriver(r *http.Request, driverID primitive.ObjectID, title, message string) {
	err := h.notifications.InsertNotification(r.Context(), models.Notification{
		UserID:  &driverID,
		Title:   title,
		Message: message,
		Type:    models.NotificationChecklist,
	})
	if err != nil {
		log.WithError(err).Warn("failed to notify driver")
	}
}

func (h *ChecklistHandler) vehicleSummaries(r *http.Request) (map[primitive.ObjectID]*models.VehicleSummary, error) {
	vehicles, err := h.vehicles.FindVehicles(r.Context(), bson.M{})
	if err != nil {
		return nil, err
	}
	summaries := make(map[primitive.ObjectID]*models.VehicleSummary, len(vehicles))
	for _, v := range vehicles {
		summaries[v.ID] = &models.VehicleSummary{Brand: v.Brand, Model: v.Model, Plate: v.Plate}
	}
	return summaries, nil
}
