package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	departmentsvalidator "medassist/internal/departments/validator"
	"medassist/pkg/logger"
)

const seedJSON = `[
  {"name": " Cardiology ", "operating_hours": [
    {"day_of_week": "Monday", "start_time": "09:00", "end_time": "12:00"},
    {"day_of_week": "Monday", "start_time": "14:00", "end_time": "17:00"}
  ]},
  {"name": "Radiology", "operating_hours": [
    {"day_of_week": "Tuesday", "start_time": "08:30", "end_time": "11:00"}
  ]},
  {"name": "Archive"}
]`

func TestLoadDepartments(t *testing.T) {
	checker := departmentsvalidator.NewDepartmentValidator(logger.Nop())

	departments, err := LoadDepartments(strings.NewReader(seedJSON), checker)
	if err != nil {
		t.Fatalf("LoadDepartments() error = %v", err)
	}
	if len(departments) != 3 {
		t.Fatalf("got %d departments, want 3", len(departments))
	}
	if departments[0].Name != "Cardiology" {
		t.Errorf("name = %q, want trimmed Cardiology", departments[0].Name)
	}
	if len(departments[0].OperatingHours) != 2 {
		t.Errorf("expected two Monday windows, got %+v", departments[0].OperatingHours)
	}
}

func TestLoadDepartments_Rejects(t *testing.T) {
	checker := departmentsvalidator.NewDepartmentValidator(logger.Nop())

	tests := []struct {
		name  string
		input string
		isDup bool
	}{
		{"malformed json", `[{"name":`, false},
		{"missing name", `[{"operating_hours": []}]`, false},
		{"bad weekday", `[{"name":"Cardiology","operating_hours":[{"day_of_week":"Funday","start_time":"09:00","end_time":"10:00"}]}]`, false},
		{"end before start", `[{"name":"Cardiology","operating_hours":[{"day_of_week":"Monday","start_time":"12:00","end_time":"09:00"}]}]`, false},
		{"bad time", `[{"name":"Cardiology","operating_hours":[{"day_of_week":"Monday","start_time":"9am","end_time":"10:00"}]}]`, false},
		{"duplicate names", `[{"name":"Cardiology"},{"name":"cardiology "}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDepartments(strings.NewReader(tt.input), checker)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.isDup != errors.Is(err, ErrDuplicateDepartment) {
				t.Errorf("error = %v, duplicate expected = %v", err, tt.isDup)
			}
		})
	}
}

func TestBookingsIndexes(t *testing.T) {
	plain := BookingsIndexes(Options{})
	if name := *plain[0].Options.Name; name != SlotIndexName {
		t.Errorf("slot index name = %q", name)
	}
	if plain[0].Options.Unique != nil {
		t.Error("plain slot index must not be unique")
	}

	enforced := BookingsIndexes(Options{EnforceUniqueSlots: true})
	opts := enforced[0].Options
	if *opts.Name != UniqueSlotIndexName || opts.Unique == nil || !*opts.Unique {
		t.Errorf("unexpected enforced slot index options: %+v", opts)
	}
	if opts.PartialFilterExpression == nil {
		t.Error("enforced slot index must be partial over active bookings")
	}
}

func TestRunMigration_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := mc.Database(fmt.Sprintf("medassist_migrate_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = mc.Disconnect(context.Background())
	})

	log := logger.Nop()
	opts := Options{EnforceUniqueSlots: true}
	for i := 0; i < 2; i++ {
		if err := RunMigration(ctx, db, opts, log); err != nil {
			t.Fatalf("RunMigration() run %d error = %v", i+1, err)
		}
	}

	departments, err := LoadDepartments(strings.NewReader(seedJSON), departmentsvalidator.NewDepartmentValidator(log))
	if err != nil {
		t.Fatalf("LoadDepartments: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := SeedDepartments(ctx, db, departments, log); err != nil {
			t.Fatalf("SeedDepartments() run %d error = %v", i+1, err)
		}
	}
	count, err := db.Collection("departments").CountDocuments(ctx, bson.M{})
	if err != nil || count != 3 {
		t.Errorf("departments = %d, %v; want 3 after repeated seeding", count, err)
	}

	bookings := db.Collection("bookings")
	slot := bson.M{
		"department_id": primitive.NewObjectID(),
		"booking_time":  time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		"created_at":    time.Now().UTC(),
	}
	insert := func(status string) error {
		doc := bson.M{"status": status}
		for k, v := range slot {
			doc[k] = v
		}
		_, err := bookings.InsertOne(ctx, doc)
		return err
	}

	if err := insert("booked"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := insert("confirmed"); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second active booking error = %v, want duplicate key", err)
	}
	if err := insert("cancelled"); err != nil {
		t.Errorf("cancelled booking on a taken slot should be allowed: %v", err)
	}
	if err := insert("pending"); err == nil {
		t.Error("schema validator should reject unknown status")
	}
}
