package database

import (
	"fmt"

	"salecrm-backend/lifecycle"
	"salecrm-backend/models"

	"gorm.io/gorm"
)

// AutoMigrate creates/updates every CRM table (non-destructive).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ContactStatus{},
		&models.SaleStatus{},
		&models.SalesOutcome{},
		&models.Contact{},
		&models.ContactStatusTransition{},
		&models.Call{},
		&models.Sale{},
		&models.ImportBatch{},
		&models.IdempotencyKey{},
	)
}

// Seed inserts the fixed reference rows the engine and the sales flow
// depend on. Idempotent; existing rows are left alone.
func Seed(db *gorm.DB) error {
	for _, s := range lifecycle.Statuses() {
		row := models.ContactStatus{Name: s.String()}
		if err := db.Where("name = ?", row.Name).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed contact status %q: %w", row.Name, err)
		}
	}
	for _, name := range []string{"Pending", "Completed", "Cancelled"} {
		row := models.SaleStatus{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed sale status %q: %w", name, err)
		}
	}
	for _, name := range []string{"Success", "Failure", "Follow-Up Required"} {
		row := models.SalesOutcome{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed sales outcome %q: %w", name, err)
		}
	}
	return nil
}

// Harden applies the constraints AutoMigrate cannot express, in idempotent
// form. Postgres only; the SQLite test databases rely on the model tags.
func Harden(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_user_contact ON sales (user_id, contact_id)`,
			`CREATE INDEX IF NOT EXISTS idx_transitions_contact_created ON contact_status_transitions (contact_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_calls_contact_created ON calls (contact_id, created_at)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Calls last at least one minute
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'calls'::regclass
					  AND conname  = 'chk_calls_duration_min'
				) THEN
					ALTER TABLE calls
					ADD CONSTRAINT chk_calls_duration_min
					CHECK (duration >= 1);
				END IF;
			END $$;`,
			// Sale amounts are non-negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'sales'::regclass
					  AND conname  = 'chk_sales_amount_nonneg'
				) THEN
					ALTER TABLE sales
					ADD CONSTRAINT chk_sales_amount_nonneg
					CHECK (sale_amount >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
