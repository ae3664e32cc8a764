package main

import (
	"context"
	"time"

	departmentsvalidator "medassist/internal/departments/validator"
	mongoMigration "medassist/internal/migrations/mongo"
	"medassist/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()
	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job")
	if err := migrateMongo(ctx, cfg); err != nil {
		cfg.Log.Error("Migration failed", "error", err)
		return
	}
	cfg.Log.Info("Migration completed successfully")
}

func migrateMongo(ctx context.Context, cfg *config.Config) error {
	db, err := cfg.Client.Database(cfg.MongoDatabaseName)
	if err != nil {
		return err
	}

	opts := mongoMigration.Options{EnforceUniqueSlots: cfg.EnforceUniqueSlots}
	if err := mongoMigration.RunMigration(ctx, db, opts, cfg.Log); err != nil {
		return err
	}

	if cfg.SeedDepartmentsFile == "" {
		cfg.Log.Info("No seed file configured, skipping department seed", "env", config.EnvSeedDepartmentsFile)
		return nil
	}

	departments, err := mongoMigration.LoadDepartmentsFile(cfg.SeedDepartmentsFile, departmentsvalidator.NewDepartmentValidator(cfg.Log))
	if err != nil {
		return err
	}
	return mongoMigration.SeedDepartments(ctx, db, departments, cfg.Log)
}
