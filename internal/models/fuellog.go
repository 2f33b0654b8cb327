package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FuelLog represents a driver's refueling record.
type FuelLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	DriverID  primitive.ObjectID `bson:"driver_id" json:"driver_id"`
	Mileage   int                `bson:"mileage" json:"mileage"`
	Liters    float64            `bson:"liters" json:"liters"`
	Value     float64            `bson:"value" json:"value"` // in BRL
	Date      string             `bson:"date" json:"date"`   // YYYY-MM-DD
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// FuelLogWithVehicle is the history view with the vehicle summary joined in.
type FuelLogWithVehicle struct {
	FuelLog
	Vehicle *VehicleSummary `json:"vehicle,omitempty"`
}

// FuelLogInput is the fuel entry payload.
type FuelLogInput struct {
	VehicleID string  `json:"vehicle_id"`
	Mileage   int     `json:"mileage"`
	Liters    float64 `json:"liters"`
	Value     float64 `json:"value"`
	Date      string  `json:"date"`
}
