package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront-service/internal/model"
	"storefront-service/pkg/database"
)

// setupTestDB starts a throwaway Postgres container, runs the schema
// migrations and returns a connected handle. Skipped in -short mode.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=testdb sslmode=disable",
		host, port.Port())

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	return db
}

// seedUser inserts a user directly, bypassing the registration path
func seedUser(t *testing.T, db *gorm.DB, name, email, role string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Hash password: %v", err)
	}
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Seed user %s: %v", email, err)
	}
	return user
}

// addressFixture builds a plausible shipping address
func addressFixture(name string) model.Address {
	return model.Address{
		Name:    name,
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Zip:     "62701",
		Country: "US",
	}
}

// seedCategory inserts a category
func seedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Seed category %s: %v", name, err)
	}
	return category
}

// seedProduct inserts an active product in the given category
func seedProduct(t *testing.T, db *gorm.DB, categoryID uint, name string, price float64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.NewFromFloat(price),
		CategoryID:  categoryID,
		Stock:       stock,
		SKU:         GenerateSKU(),
		IsActive:    true,
		Images:      []string{"https://img.example.com/" + name + ".jpg"},
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Seed product %s: %v", name, err)
	}
	return product
}
