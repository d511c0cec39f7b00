// load-records imports a record export (.json, .csv or .xlsx) into the
// PostgreSQL records table in one transaction. Rows are upserted by _id; rows
// without an _id get a fresh UUID.
//
// Usage: go run ./cmd/load-records --file records.xlsx [--table consign_records] [--replace]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/moonandjupiter/consign-tracker/internal/config"
	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/moonandjupiter/consign-tracker/internal/db"
	"github.com/moonandjupiter/consign-tracker/internal/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var (
		file    string
		table   string
		replace bool
	)
	cmd := &cobra.Command{
		Use:          "load-records",
		Short:        "Import a record export into the PostgreSQL records table",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.ValidTable(table) {
				return fmt.Errorf("invalid table name %q", table)
			}
			records, err := source.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			generated := assignIDs(records)

			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
			if err != nil {
				return err
			}
			defer pool.Close()

			tx, err := pool.Begin(ctx)
			if err != nil {
				return fmt.Errorf("begin transaction: %w", err)
			}
			defer tx.Rollback(ctx)

			if replace {
				logrus.Infof("Clearing %s...", table)
				if _, err := tx.Exec(ctx, "DELETE FROM "+quoteTable(table)); err != nil {
					return fmt.Errorf("clear table: %w", err)
				}
			}

			logrus.WithFields(logrus.Fields{"records": len(records), "generated_ids": generated}).Info("Upserting records...")
			if err := upsert(ctx, tx, table, records); err != nil {
				return err
			}
			if err := tx.Commit(ctx); err != nil {
				return fmt.Errorf("commit: %w", err)
			}
			logrus.Infof("Loaded %d records into %s.", len(records), table)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Record export to import (.json, .csv or .xlsx)")
	cmd.Flags().StringVarP(&table, "table", "t", "consign_records", "Target table")
	cmd.Flags().BoolVar(&replace, "replace", false, "Delete existing rows before loading")
	_ = cmd.MarkFlagRequired("file")

	if err := cmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// assignIDs gives every record without an _id a new UUID and returns how many
// were assigned.
func assignIDs(records []core.RawRecord) int {
	n := 0
	for i := range records {
		if strings.TrimSpace(string(records[i].ID)) == "" {
			records[i].ID = core.Text(uuid.NewString())
			n++
		}
	}
	return n
}

func quoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// upsertSQL builds the INSERT ... ON CONFLICT (_id) statement for table.
// seq is left to its default so new rows keep their file order.
func upsertSQL(table string) string {
	cols := make([]string, len(source.Columns))
	params := make([]string, len(source.Columns))
	var updates []string
	for i, c := range source.Columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
		if c != "_id" {
			updates = append(updates, cols[i]+" = EXCLUDED."+cols[i])
		}
	}
	return "INSERT INTO " + quoteTable(table) + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(params, ", ") + ") ON CONFLICT (" + pgx.Identifier{"_id"}.Sanitize() + ") DO UPDATE SET " +
		strings.Join(updates, ", ")
}

func upsert(ctx context.Context, tx pgx.Tx, table string, records []core.RawRecord) error {
	stmt := upsertSQL(table)
	batch := &pgx.Batch{}
	for _, r := range records {
		vals := source.FieldValues(r)
		args := make([]any, len(vals))
		for i, v := range vals {
			args[i] = v
		}
		batch.Queue(stmt, args...)
	}
	res := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := res.Exec(); err != nil {
			res.Close()
			return fmt.Errorf("upsert record %d (%s): %w", i+1, records[i].ID, err)
		}
	}
	return res.Close()
}
