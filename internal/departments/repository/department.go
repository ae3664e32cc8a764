package repository

import (
	"context"
	"errors"
	"fmt"

	departmentserrors "medassist/internal/departments/errors"
	"medassist/pkg/config"
	mongostore "medassist/pkg/db/mongo"
	"medassist/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "departments"
)

type DepartmentRepository interface {
	FindAll(ctx context.Context) ([]*model.Department, error)
	FindWithOperatingHours(ctx context.Context) ([]*model.Department, error)
	FindByName(ctx context.Context, name string) (*model.Department, error)
	FindByID(ctx context.Context, id string) (*model.Department, error)
	OperatingHours(ctx context.Context, id string) ([]model.OperatingHours, error)
}

type mongoDepartmentRepository struct {
	cfg *config.Config
}

func NewMongoDepartmentRepository(cfg *config.Config) DepartmentRepository {
	return &mongoDepartmentRepository{cfg: cfg}
}

// collection resolves the collection per call so a closed client surfaces as
// ErrStoreUnavailable instead of a driver panic.
func (r *mongoDepartmentRepository) collection() (*mongo.Collection, error) {
	db, err := r.cfg.Client.Database(r.cfg.MongoDatabaseName)
	if err != nil {
		return nil, err
	}
	return db.Collection(CollectionName), nil
}

func (r *mongoDepartmentRepository) find(ctx context.Context, filter bson.M) ([]*model.Department, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongostore.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongostore.IOError("find departments", err)
	}
	defer cursor.Close(ctx)

	departments := make([]*model.Department, 0)
	if err = cursor.All(ctx, &departments); err != nil {
		return nil, mongostore.IOError("decode departments", err)
	}

	return departments, nil
}

func (r *mongoDepartmentRepository) FindAll(ctx context.Context) ([]*model.Department, error) {
	return r.find(ctx, bson.M{})
}

// FindWithOperatingHours returns departments that have at least one opening window.
func (r *mongoDepartmentRepository) FindWithOperatingHours(ctx context.Context) ([]*model.Department, error) {
	return r.find(ctx, bson.M{
		"operating_hours": bson.M{"$exists": true, "$ne": bson.A{}},
	})
}

func (r *mongoDepartmentRepository) FindByName(ctx context.Context, name string) (*model.Department, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoDepartmentRepository) FindByID(ctx context.Context, id string) (*model.Department, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", departmentserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoDepartmentRepository) OperatingHours(ctx context.Context, id string) ([]model.OperatingHours, error) {
	department, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if department.OperatingHours == nil {
		return []model.OperatingHours{}, nil
	}
	return department.OperatingHours, nil
}

func (r *mongoDepartmentRepository) findOne(ctx context.Context, filter bson.M) (*model.Department, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongostore.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var department model.Department
	err = coll.FindOne(ctx, filter).Decode(&department)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, departmentserrors.ErrNotFound
		}
		return nil, mongostore.IOError("find department", err)
	}

	return &department, nil
}
