package models

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"sort"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Schema tooling for the two site tables.

GENERATE_MODELS=true migrates projects and contact_messages and writes typed
query helpers to ./generated.

GENERATE_COLUMN_REPORT=true only prints the columns that exist in the
database but have no matching field on the Go model, e.g.

	--- Table: projects ---
	Found 1 columns not accounted for in model:
	  - legacy_slug
*/

// Tables maps each table name to the model stored in it
var Tables = map[string]any{
	Project{}.TableName():        Project{},
	ContactMessage{}.TableName(): ContactMessage{},
}

// GenerateModels migrates the site tables and generates query helpers
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Info,
			Colorful: true,
		},
	)
	migrateDB := db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	fmt.Println("Migrating models...")
	if err := migrateDB.AutoMigrate(&Project{}, &ContactMessage{}); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(migrateDB)
	g.ApplyBasic(Project{}, ContactMessage{})
	g.Execute()

	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport prints and returns, per table, the database
// columns that no model field maps to. Missing tables are skipped.
func GenerateColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	names := make([]string, 0, len(Tables))
	for name := range Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	report := make(map[string][]string, len(names))
	total := 0
	for _, tableName := range names {
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				fmt.Println("Table does not exist yet (will be created during migration)")
				continue
			}
			return nil, err
		}

		mismatches := findColumnMismatches(dbColumns, getModelFields(Tables[tableName]))
		report[tableName] = mismatches
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

	fmt.Printf("\n=== SUMMARY ===\nTotal mismatched columns across all tables: %d\n", total)
	return report, nil
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	return columns, nil
}

// getModelFields returns the gorm column names declared on a model struct
func getModelFields(model any) []string {
	var fields []string
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if column := extractColumnNameFromGormTag(field.Tag.Get("gorm")); column != "" {
			fields = append(fields, column)
		}
	}
	return fields
}

func extractColumnNameFromGormTag(gormTag string) string {
	for _, part := range strings.Split(gormTag, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}

func findColumnMismatches(dbColumns, modelFields []string) []string {
	known := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		known[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !known[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
