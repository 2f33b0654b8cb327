package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vidronox/fleetcheck/internal/middleware"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// MockProfileCollection is a mock implementation of ProfileCollection
type MockProfileCollection struct {
	mock.Mock
}

func (m *MockProfileCollection) InsertProfile(ctx context.Context, profile models.Profile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

func (m *MockProfileCollection) FindProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileCollection) FindProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileCollection) FindProfiles(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockProfileCollection) UpdateProfile(ctx context.Context, id string, update bson.M) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockProfileCollection) DeleteProfile(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProfileCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVehicleCollection is a mock implementation of VehicleCollection
type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	args := m.Called(ctx, vehicle)
	return args.String(0), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) UpdateVehicle(ctx context.Context, id string, update bson.M) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVehicleCollection) SetCurrentDriver(ctx context.Context, id string, driverName string) error {
	args := m.Called(ctx, id, driverName)
	return args.Error(0)
}

func (m *MockVehicleCollection) UpdateMileage(ctx context.Context, id string, mileage int) error {
	args := m.Called(ctx, id, mileage)
	return args.Error(0)
}

func (m *MockVehicleCollection) CountVehicles(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockChecklistCollection is a mock implementation of ChecklistCollection
type MockChecklistCollection struct {
	mock.Mock
}

func (m *MockChecklistCollection) InsertChecklist(ctx context.Context, checklist models.Checklist) (string, error) {
	args := m.Called(ctx, checklist)
	return args.String(0), args.Error(1)
}

func (m *MockChecklistCollection) FindChecklists(ctx context.Context, filter bson.M) ([]models.Checklist, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Checklist), args.Error(1)
}

func (m *MockChecklistCollection) FindChecklistByID(ctx context.Context, id string) (*models.Checklist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Checklist), args.Error(1)
}

func (m *MockChecklistCollection) FindChecklistForVehicleOnDate(ctx context.Context, vehicleID, date string) (*models.Checklist, error) {
	args := m.Called(ctx, vehicleID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Checklist), args.Error(1)
}

func (m *MockChecklistCollection) UpdateChecklistStatus(ctx context.Context, id string, status models.ChecklistStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockChecklistCollection) DeleteChecklist(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChecklistCollection) CountChecklistsSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockChecklistItemCollection is a mock implementation of ChecklistItemCollection
type MockChecklistItemCollection struct {
	mock.Mock
}

func (m *MockChecklistItemCollection) InsertChecklistItems(ctx context.Context, items []models.ChecklistItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockChecklistItemCollection) FindItemsByChecklist(ctx context.Context, checklistID string) ([]models.ChecklistItem, error) {
	args := m.Called(ctx, checklistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChecklistItem), args.Error(1)
}

func (m *MockChecklistItemCollection) UpdateChecklistItem(ctx context.Context, id string, isOK bool, notes string) error {
	args := m.Called(ctx, id, isOK, notes)
	return args.Error(0)
}

func (m *MockChecklistItemCollection) DeleteItemsByChecklist(ctx context.Context, checklistID string) error {
	args := m.Called(ctx, checklistID)
	return args.Error(0)
}

// MockDamageCollection is a mock implementation of DamageCollection
type MockDamageCollection struct {
	mock.Mock
}

func (m *MockDamageCollection) InsertDamage(ctx context.Context, damage models.Damage) (string, error) {
	args := m.Called(ctx, damage)
	return args.String(0), args.Error(1)
}

func (m *MockDamageCollection) FindDamages(ctx context.Context, filter bson.M, limit int64) ([]models.Damage, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Damage), args.Error(1)
}

func (m *MockDamageCollection) FindDamageByID(ctx context.Context, id string) (*models.Damage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Damage), args.Error(1)
}

func (m *MockDamageCollection) UpdateDamage(ctx context.Context, id string, update bson.M) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockDamageCollection) DeleteDamage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDamageCollection) CountDamages(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockFuelLogCollection is a mock implementation of FuelLogCollection
type MockFuelLogCollection struct {
	mock.Mock
}

func (m *MockFuelLogCollection) InsertFuelLog(ctx context.Context, log models.FuelLog) (string, error) {
	args := m.Called(ctx, log)
	return args.String(0), args.Error(1)
}

func (m *MockFuelLogCollection) FindFuelLogsByDriver(ctx context.Context, driverID string, limit int64) ([]models.FuelLog, error) {
	args := m.Called(ctx, driverID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FuelLog), args.Error(1)
}

// MockNotificationCollection is a mock implementation of NotificationCollection
type MockNotificationCollection struct {
	mock.Mock
}

func (m *MockNotificationCollection) InsertNotification(ctx context.Context, notification models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationCollection) FindNotificationsForUser(ctx context.Context, userID string, includeBroadcast bool, limit int64) ([]models.Notification, error) {
	args := m.Called(ctx, userID, includeBroadcast, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationCollection) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationCollection) MarkAllRead(ctx context.Context, userID string, includeBroadcast bool) error {
	args := m.Called(ctx, userID, includeBroadcast)
	return args.Error(0)
}

// withClaims attaches authenticated claims to the request, the way the
// auth middleware does.
func withClaims(r *http.Request, claims *models.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, claims)
	return r.WithContext(ctx)
}

func driverClaims(userID string) *models.Claims {
	return &models.Claims{
		UserID:   userID,
		Username: "joao.silva",
		FullName: "João Silva",
		Role:     models.RoleDriver,
	}
}

func supervisorClaims(userID string) *models.Claims {
	return &models.Claims{
		UserID:   userID,
		Username: "maria.santos",
		FullName: "Maria Santos",
		Role:     models.RoleSupervisor,
	}
}
