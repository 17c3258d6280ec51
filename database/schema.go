package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// requiredColumns lists the tables and columns the ledger cannot run without.
var requiredColumns = map[string][]string{
	"accounts":        {"id", "handle", "email", "display_name", "password_hash", "balance", "created_at"},
	"bets":            {"id", "owner_account_id", "title", "body", "evidence", "wager", "status", "challenger_account_id", "challenge_amount", "created_at"},
	"likes":           {"account_id", "bet_id", "created_at"},
	"bookmarks":       {"account_id", "bet_id", "created_at"},
	"balance_history": {"id", "account_id", "balance_before", "balance_after", "change_amount", "transaction_type", "created_at"},
}

// ValidateSchema verifies that every required table exists with its required
// columns. All problems are reported together.
func (db *DB) ValidateSchema(ctx context.Context) error {
	tables := make([]string, 0, len(requiredColumns))
	for table := range requiredColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var problems []string
	for _, table := range tables {
		rows, err := db.Query(ctx,
			`SELECT column_name FROM information_schema.columns
			 WHERE table_schema = current_schema() AND table_name = $1`, table)
		if err != nil {
			return fmt.Errorf("failed to inspect table %s: %w", table, err)
		}

		present := make(map[string]bool)
		for rows.Next() {
			var column string
			if err := rows.Scan(&column); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan column of %s: %w", table, err)
			}
			present[column] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate columns of %s: %w", table, err)
		}

		if len(present) == 0 {
			problems = append(problems, fmt.Sprintf("table %q does not exist", table))
			continue
		}

		var missing []string
		for _, column := range requiredColumns[table] {
			if !present[column] {
				missing = append(missing, column)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("table %q is missing columns: %s", table, strings.Join(missing, ", ")))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("schema validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
