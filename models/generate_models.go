package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Query generation and column drift report.

GENERATE_MODELS=true migrates the schema for every model in All() and writes
typed query helpers to ./generated with gorm gen.

GENERATE_COLUMN_REPORT=true only prints, per table, the database columns that
no model field maps to:

	=== COLUMN MISMATCH REPORT ===
	--- Table: projects ---
	Found 1 columns not accounted for in model:
	  - legacy_slug
	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&Author{},
		&Project{},
	}
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	verbose := db.Session(&gorm.Session{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel: logger.Info,
				Colorful: true,
			},
		),
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	fmt.Println("Migrating models...")
	if err := verbose.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Author{}, Project{})
	g.Execute()

	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport prints the columns that exist in the database
// but have no matching model field, and returns the total count.
func GenerateColumnMismatchReport(db *gorm.DB) (int, error) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return total, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table
		fmt.Printf("\n--- Table: %s ---\n", table)

		if !db.Migrator().HasTable(model) {
			fmt.Println("Table does not exist yet (will be created during migration)")
			continue
		}

		columns, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return total, fmt.Errorf("read columns for %s: %w", table, err)
		}

		names := make([]string, 0, len(columns))
		for _, c := range columns {
			names = append(names, c.Name())
		}

		mismatches := findColumnMismatches(names, stmt.Schema.DBNames)
		if len(mismatches) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}

		fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Printf("  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
	return total, nil
}

// findColumnMismatches returns the sorted columns missing from modelFields
func findColumnMismatches(dbColumns, modelFields []string) []string {
	known := make(map[string]struct{}, len(modelFields))
	for _, field := range modelFields {
		known[field] = struct{}{}
	}

	var mismatches []string
	for _, col := range dbColumns {
		if _, ok := known[col]; !ok {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
