package main

import (
	"flag"
	"fmt"
	"os"

	"gitlab.com/skao/slt_backend/config"
	"gorm.io/gorm"
)

// slt-migrate creates the shift log tables and their indexes. It is safe to
// run repeatedly; every statement is idempotent.
func main() {
	dryRun := flag.Bool("dry-run", false, "If true, do not write; only print the statements")
	flag.Parse()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS tab_oda_slt (
			id SERIAL PRIMARY KEY,
			shift_id TEXT UNIQUE NOT NULL,
			shift_start TIMESTAMPTZ,
			shift_end TIMESTAMPTZ,
			shift_operator TEXT,
			shift_logs JSONB,
			media JSONB,
			annotations TEXT,
			comments TEXT,
			created_by TEXT,
			created_on TIMESTAMPTZ,
			last_modified_by TEXT,
			last_modified_on TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS tab_oda_slt_shift_comments (
			id SERIAL PRIMARY KEY,
			comment TEXT,
			shift_id TEXT NOT NULL,
			image JSONB,
			created_by TEXT,
			created_on TIMESTAMPTZ,
			last_modified_by TEXT,
			last_modified_on TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS tab_oda_slt_shift_log_comments (
			id SERIAL PRIMARY KEY,
			log_comment TEXT,
			operator_name TEXT,
			shift_id TEXT NOT NULL,
			eb_id TEXT,
			image JSONB,
			created_by TEXT,
			created_on TIMESTAMPTZ,
			last_modified_by TEXT,
			last_modified_on TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS tab_oda_slt_shift_annotations (
			id SERIAL PRIMARY KEY,
			annotation TEXT,
			operator_name TEXT,
			shift_id TEXT NOT NULL,
			created_by TEXT,
			created_on TIMESTAMPTZ,
			last_modified_by TEXT,
			last_modified_on TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_slt_created_on ON tab_oda_slt (created_on)`,
		`CREATE INDEX IF NOT EXISTS idx_slt_last_modified_on ON tab_oda_slt (last_modified_on)`,
		`CREATE INDEX IF NOT EXISTS idx_slt_shift_logs ON tab_oda_slt USING GIN (shift_logs)`,
		`CREATE INDEX IF NOT EXISTS idx_slt_comments_shift_id ON tab_oda_slt_shift_comments (shift_id)`,
		`CREATE INDEX IF NOT EXISTS idx_slt_log_comments_shift_id ON tab_oda_slt_shift_log_comments (shift_id, eb_id)`,
		`CREATE INDEX IF NOT EXISTS idx_slt_annotations_shift_id ON tab_oda_slt_shift_annotations (shift_id)`,
	}

	if *dryRun {
		for _, stmt := range statements {
			fmt.Println(stmt + ";")
		}
		return
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("shift log tables ready")
}
