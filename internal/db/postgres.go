package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/types"
	"github.com/policydesk/policydesk-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "policydesk", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

// AutoMigrateAll creates the schema and then applies the foreign keys with
// explicit DDL. Deliberately no ON DELETE CASCADE: cascades are performed and
// ordered by the service layer so rollback semantics stay in the application
// transaction.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Address{},
		&types.Policy{},
		&types.PolicyHolder{},
		&types.Driver{},
		&types.Vehicle{},
		&types.VehicleCoverage{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		ddl  string
	}{
		{"fk_user_tokens_user_id", `ALTER TABLE "user_tokens" ADD CONSTRAINT "fk_user_tokens_user_id" FOREIGN KEY ("user_id") REFERENCES "users"("id")`},
		{"fk_policies_user_id", `ALTER TABLE "policies" ADD CONSTRAINT "fk_policies_user_id" FOREIGN KEY ("user_id") REFERENCES "users"("id")`},
		{"fk_policy_holders_policy_id", `ALTER TABLE "policy_holders" ADD CONSTRAINT "fk_policy_holders_policy_id" FOREIGN KEY ("policy_id") REFERENCES "policies"("id")`},
		{"fk_policy_holders_address_id", `ALTER TABLE "policy_holders" ADD CONSTRAINT "fk_policy_holders_address_id" FOREIGN KEY ("address_id") REFERENCES "addresses"("id")`},
		{"fk_drivers_policy_id", `ALTER TABLE "drivers" ADD CONSTRAINT "fk_drivers_policy_id" FOREIGN KEY ("policy_id") REFERENCES "policies"("id")`},
		{"fk_vehicles_policy_id", `ALTER TABLE "vehicles" ADD CONSTRAINT "fk_vehicles_policy_id" FOREIGN KEY ("policy_id") REFERENCES "policies"("id")`},
		{"fk_vehicles_garaging_address_id", `ALTER TABLE "vehicles" ADD CONSTRAINT "fk_vehicles_garaging_address_id" FOREIGN KEY ("garaging_address_id") REFERENCES "addresses"("id")`},
		{"fk_vehicle_coverages_vehicle_id", `ALTER TABLE "vehicle_coverages" ADD CONSTRAINT "fk_vehicle_coverages_vehicle_id" FOREIGN KEY ("vehicle_id") REFERENCES "vehicles"("id")`},
	}
	for _, c := range constraints {
		var count int64
		if err := s.db.Raw(`SELECT COUNT(*) FROM information_schema.table_constraints WHERE constraint_name = ?`, c.name).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
