package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	bookingserrors "medassist/internal/bookings/errors"
	"medassist/pkg/client"
	"medassist/pkg/config"
	mongostore "medassist/pkg/db/mongo"
	"medassist/pkg/logger"
	"medassist/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func disconnectedConfig() *config.Config {
	return &config.Config{
		MongoDatabaseName: "medical_center_test",
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		Log:               logger.Nop(),
		Client:            client.NewClient(),
	}
}

// integrationConfig connects to MONGO_TEST_URI and uses a throwaway database.
func integrationConfig(t *testing.T) *config.Config {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	cfg := disconnectedConfig()
	cfg.MongoDatabaseName = fmt.Sprintf("medassist_test_%d", time.Now().UnixNano())
	cfg.ReadTimeout = 5 * time.Second
	cfg.WriteTimeout = 5 * time.Second
	cfg.Client.Mongo = mc

	t.Cleanup(func() {
		_ = mc.Database(cfg.MongoDatabaseName).Drop(context.Background())
		_ = mc.Disconnect(context.Background())
	})
	return cfg
}

func TestBookingRepository_StoreUnavailable(t *testing.T) {
	repo := NewMongoBookingRepository(disconnectedConfig())
	ctx := context.Background()
	departmentID := primitive.NewObjectID().Hex()

	err := repo.Create(ctx, &model.Booking{
		DepartmentID: departmentID,
		BookingTime:  time.Now(),
		Status:       model.BookingStatusBooked,
	})
	if !errors.Is(err, mongostore.ErrStoreUnavailable) {
		t.Errorf("Create: expected ErrStoreUnavailable, got %v", err)
	}

	if _, err := repo.FindActive(ctx); !errors.Is(err, mongostore.ErrStoreUnavailable) {
		t.Errorf("FindActive: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := repo.CountAt(ctx, departmentID, time.Now()); !errors.Is(err, mongostore.ErrStoreUnavailable) {
		t.Errorf("CountAt: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestBookingRepository_InvalidDepartmentID(t *testing.T) {
	repo := NewMongoBookingRepository(disconnectedConfig())

	err := repo.Create(context.Background(), &model.Booking{DepartmentID: "cardiology"})

	if !errors.Is(err, bookingserrors.ErrInvalidDepartmentID) {
		t.Errorf("expected ErrInvalidDepartmentID, got %v", err)
	}
}

func TestBookingLockRepository_StoreUnavailable(t *testing.T) {
	repo := NewBookingLockRepository(disconnectedConfig())

	_, err := repo.Create(context.Background(), &model.BookingLock{ID: "booking_lock_x_1"})

	if !errors.Is(err, mongostore.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestBookingRepository_Integration(t *testing.T) {
	cfg := integrationConfig(t)
	repo := NewMongoBookingRepository(cfg)
	ctx := context.Background()

	departmentID := primitive.NewObjectID().Hex()
	loc := time.UTC
	slot := time.Date(2024, 6, 7, 9, 30, 0, 0, loc)

	booked := &model.Booking{DepartmentID: departmentID, BookingTime: slot, Status: model.BookingStatusBooked}
	if err := repo.Create(ctx, booked); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if booked.ID == "" {
		t.Fatal("expected generated ID")
	}

	cancelled := &model.Booking{DepartmentID: departmentID, BookingTime: slot.Add(time.Hour), Status: model.BookingStatusCancelled}
	if err := repo.Create(ctx, cancelled); err != nil {
		t.Fatalf("Create cancelled: %v", err)
	}

	day := time.Date(2024, 6, 7, 0, 0, 0, 0, loc)
	active, err := repo.FindActiveInRange(ctx, departmentID, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("FindActiveInRange: %v", err)
	}
	if len(active) != 1 || !active[0].BookingTime.Equal(slot) || active[0].ID != booked.ID || active[0].DepartmentID != departmentID {
		t.Errorf("unexpected active bookings: %+v", active)
	}

	count, err := repo.CountAt(ctx, departmentID, slot, model.BookingStatusBooked)
	if err != nil {
		t.Fatalf("CountAt: %v", err)
	}
	if count != 1 {
		t.Errorf("CountAt = %d, want 1", count)
	}
}

func TestBookingLockRepository_Integration(t *testing.T) {
	cfg := integrationConfig(t)
	repo := NewBookingLockRepository(cfg)
	ctx := context.Background()

	lock := &model.BookingLock{ID: "booking_lock_dept_1717752600", Owner: "first", ExpiresAt: time.Now().Add(time.Minute)}
	if _, err := repo.Create(ctx, lock); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := &model.BookingLock{ID: lock.ID, Owner: "second", ExpiresAt: time.Now().Add(time.Minute)}
	if _, err := repo.Create(ctx, second); !errors.Is(err, bookingserrors.ErrSlotLocked) {
		t.Errorf("expected ErrSlotLocked, got %v", err)
	}

	if err := repo.Delete(ctx, lock.ID, second.Owner); err != nil {
		t.Fatalf("Delete with foreign owner: %v", err)
	}
	if _, err := repo.Create(ctx, second); !errors.Is(err, bookingserrors.ErrSlotLocked) {
		t.Errorf("lock released by a foreign owner, got %v", err)
	}

	if err := repo.Delete(ctx, lock.ID, lock.Owner); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Create(ctx, second); err != nil {
		t.Errorf("expected lock to be free after delete, got %v", err)
	}
}

func TestBookingLockRepository_ReplacesExpiredLock(t *testing.T) {
	cfg := integrationConfig(t)
	repo := NewBookingLockRepository(cfg)
	ctx := context.Background()

	expired := &model.BookingLock{ID: "booking_lock_dept_1717756200", ExpiresAt: time.Now().Add(-time.Minute)}
	if _, err := repo.Create(ctx, expired); err != nil {
		t.Fatalf("Create: %v", err)
	}

	fresh := &model.BookingLock{ID: expired.ID, ExpiresAt: time.Now().Add(time.Minute)}
	if _, err := repo.Create(ctx, fresh); err != nil {
		t.Errorf("expected expired lock to be replaced, got %v", err)
	}
}
