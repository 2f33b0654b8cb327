package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DamagePriority represents how urgently a damage needs attention.
type DamagePriority string

const (
	PriorityLow    DamagePriority = "low"
	PriorityMedium DamagePriority = "medium"
	PriorityHigh   DamagePriority = "high"
)

// DamageStatus represents the lifecycle state of a damage report.
type DamageStatus string

const (
	DamagePending  DamageStatus = "pending"
	DamageResolved DamageStatus = "resolved"
)

// Damage represents a driver-reported defect against a vehicle.
type Damage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID   primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	ReportedBy  primitive.ObjectID `bson:"reported_by" json:"reported_by"`
	Description string             `bson:"description" json:"description"`
	PhotoURL    string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Priority    DamagePriority     `bson:"priority" json:"priority"`
	Status      DamageStatus       `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// DamageWithVehicle is the listing view with the vehicle summary joined in.
type DamageWithVehicle struct {
	Damage
	Vehicle *VehicleSummary `json:"vehicle,omitempty"`
}

// DamageInput is the create/update payload for a damage report.
type DamageInput struct {
	VehicleID   string         `json:"vehicle_id"`
	Description string         `json:"description"`
	Priority    DamagePriority `json:"priority"`
	PhotoURL    string         `json:"photo_url"`
}

// IsValidDamagePriority checks if a damage priority is valid
func IsValidDamagePriority(p DamagePriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
