package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	shippingdomain "github.com/smallbiznis/vitrine/internal/shipping/domain"
	storedomain "github.com/smallbiznis/vitrine/internal/store/domain"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	"gorm.io/gorm"
)

const migrationsDir = "sql"

//go:embed sql/*.sql
var embeddedMigrations embed.FS

// Models lists every table the storefront owns, in dependency order.
func Models() []any {
	return []any{
		&plandomain.Plan{},
		&subscriptiondomain.Subscription{},
		&storedomain.Store{},
		&productdomain.Product{},
		&orderdomain.Order{},
		&shippingdomain.ShippingConfig{},
		&shippingdomain.ShippingZone{},
	}
}

// Apply brings the schema up to date. Postgres uses the versioned SQL files;
// other dialects are created from the models.
func Apply(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "postgres", "postgresql", "":
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	default:
		return conn.AutoMigrate(Models()...)
	}
}

// RunMigrations applies the embedded SQL migrations on a postgres handle.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}
