package handlers

import (
	"net/http"
	"time"

	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardHandler aggregates fleet statistics per role.
type DashboardHandler struct {
	vehicles   db.VehicleCollection
	checklists db.ChecklistCollection
	damages    db.DamageCollection
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(vehicles db.VehicleCollection, checklists db.ChecklistCollection, damages db.DamageCollection) *DashboardHandler {
	return &DashboardHandler{vehicles: vehicles, checklists: checklists, damages: damages}
}

// SupervisorStats is the supervisor dashboard payload.
type SupervisorStats struct {
	TotalVehicles     int64                      `json:"total_vehicles"`
	ActiveVehicles    int64                      `json:"active_vehicles"`
	InMaintenance     int64                      `json:"in_maintenance"`
	PendingDamages    int64                      `json:"pending_damages"`
	ChecklistsLast7d  int64                      `json:"checklists_last_7d"`
	RecentDamages     []models.DamageWithVehicle `json:"recent_damages"`
	FleetDistribution []ChartSlice               `json:"fleet_distribution"`
}

// ChartSlice is one bucket of the fleet distribution chart.
type ChartSlice struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// DriverStats is the driver dashboard payload.
type DriverStats struct {
	AvailableVehicles int64 `json:"available_vehicles"`
	MyChecklists      int   `json:"my_checklists"`
	MyPendingDamages  int64 `json:"my_pending_damages"`
}

// Stats returns the dashboard for the authenticated user's role.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	if claims.Role == models.RoleSupervisor {
		h.supervisorStats(w, r)
		return
	}
	h.driverStats(w, r, claims)
}

func (h *DashboardHandler) supervisorStats(w http.ResponseWriter, r *http.Request) {
	total, err := h.vehicles.CountVehicles(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}
	active, err := h.vehicles.CountVehicles(r.Context(), bson.M{"status": models.VehicleActive})
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}

	pendingDamages, err := h.damages.CountDamages(r.Context(), bson.M{"status": models.DamagePending})
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	checklists, err := h.checklists.CountChecklistsSince(r.Context(), weekAgo)
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}

	// Newest five regardless of status; resolved ones stay visible so the
	// supervisor sees recent activity, not just the backlog.
	recent, err := h.damages.FindDamages(r.Context(), bson.M{}, 5)
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
	recentJoined := make([]models.DamageWithVehicle, 0, len(recent))
	for _, d := range recent {
		recentJoined = append(recentJoined, models.DamageWithVehicle{Damage: d, Vehicle: summaries[d.VehicleID]})
	}

	writeJSON(w, http.StatusOK, SupervisorStats{
		TotalVehicles:    total,
		ActiveVehicles:   active,
		InMaintenance:    total - active,
		PendingDamages:   pendingDamages,
		ChecklistsLast7d: checklists,
		RecentDamages:    recentJoined,
		FleetDistribution: []ChartSlice{
			{Label: "Ativos", Value: active},
			{Label: "Manutenção", Value: total - active},
			{Label: "Avarias", Value: pendingDamages},
		},
	})
}

func (h *DashboardHandler) driverStats(w http.ResponseWriter, r *http.Request, claims *models.Claims) {
	available, err := h.vehicles.CountVehicles(r.Context(), bson.M{"status": models.VehicleActive})
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}

	driverOID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	mine, err := h.checklists.FindChecklists(r.Context(), bson.M{"driver_id": driverOID})
	if err != nil {
		http.Error(w, "Failed to fetch checklists", http.StatusInternalServerError)
		return
	}

	myPending, err := h.damages.CountDamages(r.Context(), bson.M{
		"reported_by": driverOID,
		"status":      models.DamagePending,
	})
	if err != nil {
		http.Error(w, "Failed to compute statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, DriverStats{
		AvailableVehicles: available,
		MyChecklists:      len(mine),
		MyPendingDamages:  myPending,
	})
}
