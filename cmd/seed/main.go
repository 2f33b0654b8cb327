// Command seed loads a demo dataset: a supervisor, two drivers, a small
// fleet and a couple of open damage reports. Existing rows are left alone,
// so it is safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/vidronox/fleetcheck/internal/auth"
	"github.com/vidronox/fleetcheck/internal/config"
	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const demoPassword = "fleetcheck123"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	database := client.Database(cfg.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("failed to ensure indexes")
	}

	collections, err := db.NewCollections(database)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize collections")
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)

	driverID := seedProfiles(ctx, collections, authService)
	vehicleIDs := seedVehicles(ctx, collections)
	seedDamages(ctx, collections, driverID, vehicleIDs)

	log.Info("demo data loaded")
}

func seedProfiles(ctx context.Context, collections *db.Collections, authService *auth.Service) primitive.ObjectID {
	hash, err := authService.HashPassword(demoPassword)
	if err != nil {
		log.WithError(err).Fatal("failed to hash demo password")
	}

	profiles := []models.Profile{
		{Username: "maria.santos", PasswordHash: hash, FullName: "Maria Santos", Role: models.RoleSupervisor, Phone: "+5511988880001", IsActive: true},
		{Username: "joao.silva", PasswordHash: hash, FullName: "João Silva", Role: models.RoleDriver, Phone: "+5511988880002", IsActive: true},
		{Username: "carlos.souza", PasswordHash: hash, FullName: "Carlos Souza", Role: models.RoleDriver, Phone: "+5511988880003", IsActive: true},
	}

	var driverID primitive.ObjectID
	for _, p := range profiles {
		existing, err := collections.Profiles.FindProfileByUsername(ctx, p.Username)
		if err == nil {
			log.WithField("username", p.Username).Info("profile already exists")
			if p.Username == "joao.silva" {
				driverID = existing.ID
			}
			continue
		}
		if !errors.Is(err, db.ErrNotFound) {
			log.WithError(err).Fatal("failed to look up profile")
		}

		id, err := collections.Profiles.InsertProfile(ctx, p)
		if err != nil {
			log.WithError(err).WithField("username", p.Username).Fatal("failed to insert profile")
		}
		log.WithField("username", p.Username).Info("profile created")
		if p.Username == "joao.silva" {
			driverID, _ = primitive.ObjectIDFromHex(id)
		}
	}
	return driverID
}

func seedVehicles(ctx context.Context, collections *db.Collections) map[string]primitive.ObjectID {
	vehicles := []models.Vehicle{
		{Brand: "Toyota", Model: "Corolla", Year: 2022, Plate: "ABC-1234", Mileage: 15000, Status: models.VehicleActive},
		{Brand: "Ford", Model: "Ranger", Year: 2021, Plate: "XYZ-9876", Mileage: 48000, Status: models.VehicleActive},
		{Brand: "Volkswagen", Model: "Gol", Year: 2020, Plate: "KJH-4422", Mileage: 72000, Status: models.VehicleMaintenance},
		{Brand: "Fiat", Model: "Strada", Year: 2023, Plate: "FRT-9090", Mileage: 8000, Status: models.VehicleActive},
	}

	ids := make(map[string]primitive.ObjectID, len(vehicles))
	for _, v := range vehicles {
		existing, err := collections.Vehicles.FindVehicles(ctx, bson.M{"plate": v.Plate})
		if err != nil {
			log.WithError(err).Fatal("failed to look up vehicle")
		}
		if len(existing) > 0 {
			log.WithField("plate", v.Plate).Info("vehicle already exists")
			ids[v.Plate] = existing[0].ID
			continue
		}

		id, err := collections.Vehicles.InsertVehicle(ctx, v)
		if err != nil {
			log.WithError(err).WithField("plate", v.Plate).Fatal("failed to insert vehicle")
		}
		log.WithField("plate", v.Plate).Info("vehicle created")
		ids[v.Plate], _ = primitive.ObjectIDFromHex(id)
	}
	return ids
}

func seedDamages(ctx context.Context, collections *db.Collections, driverID primitive.ObjectID, vehicleIDs map[string]primitive.ObjectID) {
	existing, err := collections.Damages.CountDamages(ctx, bson.M{})
	if err != nil {
		log.WithError(err).Fatal("failed to count damages")
	}
	if existing > 0 {
		log.Info("damages already present, skipping")
		return
	}

	damages := []models.Damage{
		{
			VehicleID:   vehicleIDs["ABC-1234"],
			ReportedBy:  driverID,
			Description: "Ar condicionado não gela",
			Priority:    models.PriorityMedium,
			Status:      models.DamagePending,
		},
		{
			VehicleID:   vehicleIDs["XYZ-9876"],
			ReportedBy:  driverID,
			Description: "Pneu furado",
			Priority:    models.PriorityHigh,
			Status:      models.DamagePending,
		},
	}

	for _, d := range damages {
		if _, err := collections.Damages.InsertDamage(ctx, d); err != nil {
			log.WithError(err).Fatal("failed to insert damage")
		}
		log.WithField("description", d.Description).Info("damage created")
	}
}
