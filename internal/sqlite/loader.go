package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// insertRows writes rows into table with one prepared statement. build
// returns the arguments for row i, or an error that aborts the insert.
func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, n int, build func(i int) ([]any, error)) error {
	if n == 0 {
		return nil
	}
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i := range n {
		args, err := build(i)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

// queryRows runs query and scans every row with scan.
func queryRows[T any](ctx context.Context, db *sql.DB, query string, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
