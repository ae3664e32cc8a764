package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	departmentsrepository "medassist/internal/departments/repository"
	"medassist/pkg/logger"
	"medassist/pkg/model"
	"medassist/pkg/sanitizer"
)

var ErrDuplicateDepartment = errors.New("duplicate department name")

type DepartmentChecker interface {
	Validate(department *model.Department) error
}

// LoadDepartmentsFile reads a JSON array of departments from path.
func LoadDepartmentsFile(path string, checker DepartmentChecker) ([]model.Department, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return LoadDepartments(f, checker)
}

// LoadDepartments decodes, normalizes and validates seed departments. Names
// must be unique ignoring case and spacing.
func LoadDepartments(r io.Reader, checker DepartmentChecker) ([]model.Department, error) {
	var departments []model.Department
	if err := json.NewDecoder(r).Decode(&departments); err != nil {
		return nil, fmt.Errorf("decode seed departments: %w", err)
	}

	names := make([]string, 0, len(departments))
	for i := range departments {
		d := &departments[i]
		d.ID = ""
		d.Name = sanitizer.NormalizeName(d.Name)
		if err := checker.Validate(d); err != nil {
			return nil, fmt.Errorf("department %d (%q): %w", i, d.Name, err)
		}
		names = append(names, d.Name)
	}

	if unique := sanitizer.SanitizeSlice(names, sanitizer.NormalizeName); len(unique) != len(names) {
		return nil, ErrDuplicateDepartment
	}

	return departments, nil
}

// SeedDepartments upserts departments by name. Existing documents keep their
// _id so bookings that reference them stay valid.
func SeedDepartments(ctx context.Context, db *mongo.Database, departments []model.Department, log *logger.Logger) error {
	coll := db.Collection(departmentsrepository.CollectionName)

	for _, d := range departments {
		hours := d.OperatingHours
		if hours == nil {
			hours = []model.OperatingHours{}
		}

		res, err := coll.UpdateOne(ctx,
			bson.M{"name": d.Name},
			bson.M{"$set": bson.M{"operating_hours": hours}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed department %q: %w", d.Name, err)
		}

		log.Info("Seeded department",
			"name", d.Name,
			"windows", len(hours),
			"inserted", res.UpsertedCount > 0,
		)
	}

	return nil
}
