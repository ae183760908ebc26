// Command seed loads a small demo fleet and prints a bearer token per role.
package main

import (
	"context"
	"fmt"
	"os"

	"carrental/internal/config"
	"carrental/internal/database"
	"carrental/internal/domain/access"
	"carrental/internal/domain/car"
	"carrental/internal/domain/pricing"
	"carrental/internal/domain/profile"
	"carrental/internal/pkg/jwt"
	"carrental/internal/pkg/logger"
	"carrental/internal/pkg/utils"
	"carrental/internal/schema"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed ids keep the printed tokens valid across reseeds.
var (
	adminID    = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	ownerID    = uuid.MustParse("00000000-0000-4000-8000-000000000002")
	customerID = uuid.MustParse("00000000-0000-4000-8000-000000000003")
	staffID    = uuid.MustParse("00000000-0000-4000-8000-000000000004")
	supportID  = uuid.MustParse("00000000-0000-4000-8000-000000000005")
)

func main() {
	log := logger.New(logger.Options{ServiceName: "carrental-seed", Format: "console"})
	ctx := context.Background()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error(ctx, "DB connection failed", err)
		os.Exit(1)
	}
	if err := schema.Migrate(db); err != nil {
		log.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	profiles := []profile.Profile{
		{ID: adminID, FullName: "Fleet Admin", Email: "admin@carrental.local", Role: access.RoleAdmin},
		{ID: ownerID, FullName: "Olga Owner", Email: "owner@carrental.local", Role: access.RoleCarOwner},
		{ID: customerID, FullName: "Carl Customer", Email: "customer@carrental.local", Role: access.RoleCustomer},
		{ID: staffID, FullName: "Sam Mechanic", Email: "service@carrental.local", Role: access.RoleServiceCenterStaff},
		{ID: supportID, FullName: "Sue Support", Email: "support@carrental.local", Role: access.RoleSupportStaff},
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "role", "updated_at"}),
	}).Create(&profiles).Error; err != nil {
		log.Error(ctx, "failed to seed profiles", err)
		os.Exit(1)
	}

	if err := seedCars(db); err != nil {
		log.Error(ctx, "failed to seed cars", err)
		os.Exit(1)
	}
	log.Info(log.WithField(ctx, "profiles", len(profiles)), "seed complete")

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	for _, p := range profiles {
		tok, err := tokens.GenerateToken(p.ID, p.Email)
		if err != nil {
			log.Error(ctx, "failed to sign token", err)
			os.Exit(1)
		}
		fmt.Printf("%-20s %s\n", p.Role, tok)
	}
}

func seedCars(db *gorm.DB) error {
	fleet := []struct {
		id          string
		make, model string
		year        int
		typ         car.Type
		short, long int64
		status      car.Status
	}{
		{"10000000-0000-4000-8000-000000000001", "Toyota", "Corolla", 2021, car.TypeSedan, 50, 35, car.StatusAvailable},
		{"10000000-0000-4000-8000-000000000002", "Ford", "Explorer", 2022, car.TypeSUV, 80, 60, car.StatusAvailable},
		{"10000000-0000-4000-8000-000000000003", "Honda", "Fit", 2019, car.TypeHatchback, 40, 28, car.StatusNew},
		{"10000000-0000-4000-8000-000000000004", "Volvo", "V60", 2020, car.TypeWagon, 70, 50, car.StatusMaintenance},
	}

	cars := make([]car.Car, 0, len(fleet))
	for _, f := range fleet {
		cars = append(cars, car.Car{
			ID:      uuid.MustParse(f.id),
			OwnerID: ownerID,
			Make:    f.make,
			Model:   f.model,
			Year:    f.year,
			Type:    f.typ,
			Photos:  utils.Photos{fmt.Sprintf("/static/uploads/demo/%s.jpg", f.model)},
			Status:  f.status,
			Pricing: pricing.Rates{
				ShortTerm: decimal.NewFromInt(f.short),
				LongTerm:  decimal.NewFromInt(f.long),
			},
		})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "rate_short_term", "rate_long_term", "updated_at"}),
	}).Create(&cars).Error
}
