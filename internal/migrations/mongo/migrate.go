package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepository "medassist/internal/bookings/repository"
	departmentsrepository "medassist/internal/departments/repository"
	"medassist/internal/migrations/mongo/validators"
	"medassist/pkg/logger"
	"medassist/pkg/model"
)

const (
	SlotIndexName       = "department_booking_time"
	UniqueSlotIndexName = "department_booking_time_active_unique"
	LockTTLIndexName    = "expires_at_ttl"
)

type Options struct {
	// EnforceUniqueSlots replaces the plain slot index with a partial unique one
	// over active bookings. Requires MongoDB 6.0 or newer.
	EnforceUniqueSlots bool
}

type collectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var DepartmentsIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	},
}

var BookingLocksIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName(LockTTLIndexName),
	},
}

func BookingsIndexes(opts Options) []mongo.IndexModel {
	slotKeys := bson.D{
		{Key: "department_id", Value: 1},
		{Key: "booking_time", Value: 1},
	}

	slot := mongo.IndexModel{
		Keys:    slotKeys,
		Options: options.Index().SetName(SlotIndexName),
	}
	if opts.EnforceUniqueSlots {
		slot = mongo.IndexModel{
			Keys: slotKeys,
			Options: options.Index().
				SetName(UniqueSlotIndexName).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": model.ActiveBookingStatuses},
				}),
		}
	}

	return []mongo.IndexModel{
		slot,
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "booking_time", Value: 1}}},
	}
}

func collections(opts Options) []collectionDef {
	return []collectionDef{
		{
			Name:      departmentsrepository.CollectionName,
			Indexes:   DepartmentsIndexes,
			Validator: validators.DepartmentValidator,
		},
		{
			Name:      bookingsrepository.CollectionName,
			Indexes:   BookingsIndexes(opts),
			Validator: validators.BookingValidator,
		},
		{
			Name:      bookingsrepository.LockCollectionName,
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, opts Options, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name(), "enforce_unique_slots", opts.EnforceUniqueSlots)

	for _, def := range collections(opts) {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
