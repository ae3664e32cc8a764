package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "medassist/internal/bookings/errors"
	"medassist/pkg/config"
	mongostore "medassist/pkg/db/mongo"
	"medassist/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindActive(ctx context.Context) ([]*model.Booking, error)
	FindActiveInRange(ctx context.Context, departmentID string, from, to time.Time) ([]*model.Booking, error)
	CountAt(ctx context.Context, departmentID string, at time.Time, statuses ...string) (int64, error)
}

// bookingDocument is the stored shape. department_id references departments._id
// and is kept as an ObjectID so lookups and the slot index match it.
type bookingDocument struct {
	DepartmentID primitive.ObjectID `bson:"department_id"`
	UserID       string             `bson:"user_id,omitempty"`
	BookingTime  time.Time          `bson:"booking_time"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type mongoBookingRepository struct {
	cfg *config.Config
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	return &mongoBookingRepository{cfg: cfg}
}

func (r *mongoBookingRepository) collection() (*mongo.Collection, error) {
	db, err := r.cfg.Client.Database(r.cfg.MongoDatabaseName)
	if err != nil {
		return nil, err
	}
	return db.Collection(CollectionName), nil
}

// Create inserts the booking as given. CreatedAt is filled in when zero and the
// generated ID is written back. A unique index violation is reported as ErrSlotConflict.
func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	departmentID, err := primitive.ObjectIDFromHex(booking.DepartmentID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidDepartmentID, booking.DepartmentID)
	}

	coll, err := r.collection()
	if err != nil {
		return err
	}

	ctx, cancel := mongostore.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	result, err := coll.InsertOne(ctx, bookingDocument{
		DepartmentID: departmentID,
		UserID:       booking.UserID,
		BookingTime:  booking.BookingTime,
		Status:       booking.Status,
		CreatedAt:    booking.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrSlotConflict
		}
		return mongostore.IOError("create booking", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

// FindActive returns every booked or confirmed booking ordered by booking time.
func (r *mongoBookingRepository) FindActive(ctx context.Context) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{
		"status": bson.M{"$in": model.ActiveBookingStatuses},
	})
}

// FindActiveInRange returns booked or confirmed bookings of one department with
// booking_time in [from, to).
func (r *mongoBookingRepository) FindActiveInRange(ctx context.Context, departmentID string, from, to time.Time) ([]*model.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(departmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidDepartmentID, departmentID)
	}

	return r.find(ctx, bson.M{
		"department_id": objectID,
		"status":        bson.M{"$in": model.ActiveBookingStatuses},
		"booking_time":  bson.M{"$gte": from, "$lt": to},
	})
}

// CountAt counts bookings of one department at exactly at whose status is one of statuses.
func (r *mongoBookingRepository) CountAt(ctx context.Context, departmentID string, at time.Time, statuses ...string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(departmentID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidDepartmentID, departmentID)
	}

	coll, err := r.collection()
	if err != nil {
		return 0, err
	}

	ctx, cancel := mongostore.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"department_id": objectID,
		"booking_time":  at,
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, mongostore.IOError("count bookings", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongostore.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "booking_time", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongostore.IOError("find bookings", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, mongostore.IOError("decode bookings", err)
	}

	return bookings, nil
}
