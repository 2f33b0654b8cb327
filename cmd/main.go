package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/vidronox/fleetcheck/internal/auth"
	"github.com/vidronox/fleetcheck/internal/config"
	"github.com/vidronox/fleetcheck/internal/db"
	"github.com/vidronox/fleetcheck/internal/escalation"
	"github.com/vidronox/fleetcheck/internal/events"
	"github.com/vidronox/fleetcheck/internal/handlers"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("failed to disconnect from MongoDB")
		}
	}()
	log.Info("connected to MongoDB")

	database := client.Database(cfg.MongoDB)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx, database); err != nil {
		// The API still works without them; the checklist race backstop
		// is weaker until the index exists.
		log.WithError(err).Warn("failed to ensure indexes")
	}
	cancelIndexes()

	collections, err := db.NewCollections(database)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize collections")
	}

	publisher, err := events.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MQTT broker")
	}
	defer publisher.Close()

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitor := escalation.NewMonitor()
	go monitor.Run(ctx, collections.Damages, time.Minute)

	authHandler := handlers.NewAuthHandler(authService, collections.Profiles)
	userHandler := handlers.NewUserHandler(authService, collections.Profiles, publisher)
	vehicleHandler := handlers.NewVehicleHandler(collections.Vehicles, collections.Checklists, collections.Photos, publisher)
	checklistHandler := handlers.NewChecklistHandler(collections.Checklists, collections.ChecklistItems, collections.Vehicles, collections.Notifications, publisher)
	damageHandler := handlers.NewDamageHandler(collections.Damages, collections.Vehicles, collections.Notifications, monitor, publisher)
	fuelHandler := handlers.NewFuelHandler(collections.FuelLogs, collections.Vehicles, publisher)
	notificationHandler := handlers.NewNotificationHandler(collections.Notifications)
	dashboardHandler := handlers.NewDashboardHandler(collections.Vehicles, collections.Checklists, collections.Damages)
	photoHandler := handlers.NewPhotoHandler(collections.Photos)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	supervisorOnly := authMiddleware.RequireRole(models.RoleSupervisor)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Login is rate limited per client IP; everything else relies on the
	// token check in the auth middleware.
	mux.Handle("POST /api/auth/login", rateLimiter.RateLimit(10, 60)(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)
	mux.HandleFunc("PUT /api/auth/profile", authHandler.UpdateProfile)

	mux.Handle("GET /api/users", supervisorOnly(http.HandlerFunc(userHandler.List)))
	mux.Handle("POST /api/users", supervisorOnly(http.HandlerFunc(userHandler.Create)))
	mux.Handle("PUT /api/users/{id}", supervisorOnly(http.HandlerFunc(userHandler.Update)))
	mux.Handle("DELETE /api/users/{id}", supervisorOnly(http.HandlerFunc(userHandler.Delete)))

	mux.HandleFunc("GET /api/vehicles", vehicleHandler.List)
	mux.HandleFunc("GET /api/vehicles/available", vehicleHandler.Available)
	mux.Handle("POST /api/vehicles", supervisorOnly(http.HandlerFunc(vehicleHandler.Create)))
	mux.Handle("PUT /api/vehicles/{id}", supervisorOnly(http.HandlerFunc(vehicleHandler.Update)))
	mux.Handle("DELETE /api/vehicles/{id}", supervisorOnly(http.HandlerFunc(vehicleHandler.Delete)))
	mux.Handle("POST /api/vehicles/{id}/photo", supervisorOnly(http.HandlerFunc(vehicleHandler.UploadPhoto)))

	mux.HandleFunc("POST /api/checklists", checklistHandler.Submit)
	mux.HandleFunc("GET /api/checklists", checklistHandler.List)
	mux.HandleFunc("GET /api/checklists/{id}/items", checklistHandler.Items)
	mux.Handle("PUT /api/checklists/{id}/resolve", supervisorOnly(http.HandlerFunc(checklistHandler.Resolve)))
	mux.HandleFunc("DELETE /api/checklists/{id}", checklistHandler.Delete)

	mux.HandleFunc("POST /api/damages", damageHandler.Create)
	mux.HandleFunc("GET /api/damages", damageHandler.List)
	mux.Handle("GET /api/damages/escalation", supervisorOnly(http.HandlerFunc(damageHandler.Escalation)))
	mux.Handle("POST /api/damages/escalation/ack", supervisorOnly(http.HandlerFunc(damageHandler.AcknowledgeEscalation)))
	mux.HandleFunc("PUT /api/damages/{id}", damageHandler.Update)
	mux.Handle("PUT /api/damages/{id}/resolve", supervisorOnly(http.HandlerFunc(damageHandler.Resolve)))
	mux.HandleFunc("DELETE /api/damages/{id}", damageHandler.Delete)

	mux.HandleFunc("POST /api/fuel", fuelHandler.Create)
	mux.HandleFunc("GET /api/fuel", fuelHandler.History)

	mux.HandleFunc("GET /api/notifications", notificationHandler.List)
	mux.HandleFunc("PUT /api/notifications/read-all", notificationHandler.MarkAllRead)
	mux.HandleFunc("PUT /api/notifications/{id}/read", notificationHandler.MarkRead)

	mux.HandleFunc("GET /api/dashboard", dashboardHandler.Stats)

	mux.HandleFunc("GET /api/photos/{name}", photoHandler.Get)

	handler := middleware.RequestLogger(authMiddleware.Authenticate(mux))

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
