package repository

import (
	"context"
	"time"

	bookingserrors "medassist/internal/bookings/errors"
	"medassist/pkg/config"
	mongostore "medassist/pkg/db/mongo"
	"medassist/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName = "booking_locks"
)

// BookingLockRepository provides operations for advisory locks
type BookingLockRepository interface {
	Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	Delete(ctx context.Context, lockID, owner string) error
}

type mongoBookingLockRepository struct {
	cfg *config.Config
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	return &mongoBookingLockRepository{cfg: cfg}
}

func (r *mongoBookingLockRepository) collection() (*mongo.Collection, error) {
	db, err := r.cfg.Client.Database(r.cfg.MongoDatabaseName)
	if err != nil {
		return nil, err
	}
	return db.Collection(LockCollectionName), nil
}

// Create inserts the lock. When the same slot is already locked it returns
// ErrSlotLocked, unless the existing lock has expired and the TTL monitor has
// not removed it yet, in which case the stale lock is replaced.
func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongostore.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()

	_, err = coll.InsertOne(ctx, lock)
	if err == nil {
		return lock, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, mongostore.IOError("create booking lock", err)
	}

	stale, err := coll.DeleteOne(ctx, bson.M{
		"_id":        lock.ID,
		"expires_at": bson.M{"$lt": lock.CreatedAt},
	})
	if err != nil {
		return nil, mongostore.IOError("remove expired booking lock", err)
	}
	if stale.DeletedCount == 0 {
		return nil, bookingserrors.ErrSlotLocked
	}

	if _, err = coll.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrSlotLocked
		}
		return nil, mongostore.IOError("create booking lock", err)
	}
	return lock, nil
}

// Delete removes an advisory lock held by owner. A lock that expired and was
// taken over by another request is left alone.
func (r *mongoBookingLockRepository) Delete(ctx context.Context, lockID, owner string) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	ctx, cancel := mongostore.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := coll.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner}); err != nil {
		return mongostore.IOError("delete booking lock", err)
	}
	return nil
}
