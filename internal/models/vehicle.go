package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleStatus represents the operational state of a fleet vehicle.
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleInactive    VehicleStatus = "inactive"
)

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Brand   string             `bson:"brand" json:"brand"`
	Model   string             `bson:"model" json:"model"`
	Year    int                `bson:"year" json:"year"`
	Plate   string             `bson:"plate" json:"plate"`
	Mileage int                `bson:"mileage" json:"mileage"`
	Status  VehicleStatus      `bson:"status" json:"status"`
	// CurrentDriver holds the display name of the driver who claimed the
	// vehicle with a checklist; empty while the vehicle is free.
	CurrentDriver string    `bson:"current_driver,omitempty" json:"current_driver,omitempty"`
	PhotoURL      string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// VehicleInput is the create/update payload for a vehicle.
type VehicleInput struct {
	Brand   string        `json:"brand"`
	Model   string        `json:"model"`
	Year    int           `json:"year"`
	Plate   string        `json:"plate"`
	Mileage int           `json:"mileage"`
	Status  VehicleStatus `json:"status"`
}

// VehicleSummary is the joined vehicle view embedded in damage and fuel
// listings.
type VehicleSummary struct {
	Brand string `bson:"brand" json:"brand"`
	Model string `bson:"model" json:"model"`
	Plate string `bson:"plate" json:"plate"`
}

// IsValidVehicleStatus checks if a vehicle status is valid
func IsValidVehicleStatus(status VehicleStatus) bool {
	switch status {
	case VehicleActive, VehicleMaintenance, VehicleInactive:
		return true
	default:
		return false
	}
}
