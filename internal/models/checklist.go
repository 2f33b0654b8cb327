package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChecklistStatus represents the review state of a checklist.
type ChecklistStatus string

const (
	ChecklistPending  ChecklistStatus = "pending"
	ChecklistResolved ChecklistStatus = "resolved"
)

// ChecklistItemNames are the 12 fixed inspection items every checklist covers.
var ChecklistItemNames = []string{
	"Nível de óleo do motor",
	"Nível de água do radiador",
	"Calibragem dos pneus",
	"Estado dos pneus (sulcos)",
	"Luzes (faróis, setas, freio)",
	"Limpadores de para-brisa",
	"Freio de mão",
	"Cintos de segurança",
	"Extintor de incêndio",
	"Estepe e ferramentas",
	"Limpeza interna/externa",
	"Documentação do veículo",
}

// Checklist represents a driver's per-use inspection record.
type Checklist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	DriverID  primitive.ObjectID `bson:"driver_id" json:"driver_id"`
	// Date is the submission day in YYYY-MM-DD form; one checklist may
	// claim a vehicle per date.
	Date      string          `bson:"date" json:"date"`
	Status    ChecklistStatus `bson:"status" json:"status"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
}

// ChecklistWithVehicle is the listing view with the vehicle summary joined in.
type ChecklistWithVehicle struct {
	Checklist
	Vehicle *VehicleSummary `json:"vehicle,omitempty"`
}

// ChecklistItem represents a single inspection item inside a checklist.
type ChecklistItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChecklistID primitive.ObjectID `bson:"checklist_id" json:"checklist_id"`
	ItemName    string             `bson:"item_name" json:"item_name"`
	IsOK        bool               `bson:"is_ok" json:"is_ok"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ChecklistItemInput is one marked item in a submission.
type ChecklistItemInput struct {
	ItemName string `json:"item_name"`
	IsOK     bool   `json:"is_ok"`
	Notes    string `json:"notes"`
}

// SubmitChecklistRequest is the driver submission payload.
type SubmitChecklistRequest struct {
	VehicleID string               `json:"vehicle_id"`
	Items     []ChecklistItemInput `json:"items"`
}

// ChecklistItemUpdate is one item toggle in the supervisor repair panel.
type ChecklistItemUpdate struct {
	ID    string `json:"id"`
	IsOK  bool   `json:"is_ok"`
	Notes string `json:"notes"`
}

// ResolveChecklistRequest is the supervisor repair payload.
type ResolveChecklistRequest struct {
	Items []ChecklistItemUpdate `json:"items"`
}

// AllItemsOK reports whether every submitted item passed.
func AllItemsOK(items []ChecklistItemInput) bool {
	for _, it := range items {
		if !it.IsOK {
			return false
		}
	}
	return true
}

// ValidateChecklistItems checks that a submission covers each of the 12
// fixed items exactly once.
func ValidateChecklistItems(items []ChecklistItemInput) bool {
	if len(items) != len(ChecklistItemNames) {
		return false
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		seen[it.ItemName] = true
	}
	for _, name := range ChecklistItemNames {
		if !seen[name] {
			return false
		}
	}
	return true
}
