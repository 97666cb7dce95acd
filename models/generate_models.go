package models

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Model tooling.

Migrate runs on every start. Two one-shot modes are driven by environment variables in main:

  GENERATE_MODELS=true         migrate, print the column report, write typed query helpers to ./generated
  GENERATE_COLUMN_REPORT=true  only print the column report

The column report lists database columns that no field of the matching Go model maps to.
*/

// All returns every persisted model, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Technology{},
		&Project{},
		&TechnologyOnProject{},
		&Image{},
		&ContactMessage{},
	}
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{SkipDefaultTransaction: true})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}
	return nil
}

// GenerateModels migrates and writes gorm/gen query helpers for all models.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("Model generation complete")
	return nil
}

// GenerateColumnMismatchReport logs, per table, the columns not mapped by the Go model and
// returns the total count.
func GenerateColumnMismatchReport(db *gorm.DB) (int, error) {
	total := 0
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return 0, fmt.Errorf("parse %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			log.Warn().Str("table", table).Msg("Table does not exist yet")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return 0, fmt.Errorf("columns for %s: %w", table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		mismatches := findColumnMismatches(dbColumns, modelColumns(stmt.Schema))
		if len(mismatches) > 0 {
			log.Warn().Str("table", table).Strs("columns", mismatches).Msg("Columns not accounted for in model")
		} else {
			log.Info().Str("table", table).Msg("All columns are accounted for in the model")
		}
		total += len(mismatches)
	}

	log.Info().Int("total", total).Msg("Column mismatch report finished")
	return total, nil
}

// modelColumns lists the database column names of a parsed schema.
func modelColumns(s *schema.Schema) []string {
	return append([]string(nil), s.DBNames...)
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[strings.ToLower(field)] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[strings.ToLower(col)] {
			mismatches = append(mismatches, col)
		}
	}

	return mismatches
}
