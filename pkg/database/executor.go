package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// QueryResult holds the rows returned by a vetted read-only statement.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// ReadOnlyExecutor runs vetted statements inside read-only transactions.
// It is not a security boundary: candidates reach it only after passing
// the syntax guard and the role policy filter, and engine errors are
// surfaced verbatim rather than swallowed.
type ReadOnlyExecutor struct {
	db *DB
}

// NewReadOnlyExecutor creates an executor over the given pool.
func NewReadOnlyExecutor(db *DB) *ReadOnlyExecutor {
	return &ReadOnlyExecutor{db: db}
}

// Execute runs sqlQuery in a read-only transaction and returns all rows
// as column-keyed maps, preserving result order.
func (e *ReadOnlyExecutor) Execute(ctx context.Context, sqlQuery string) (*QueryResult, error) {
	tx, err := e.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rows, err := tx.Query(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	rows.Close()

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit read-only transaction: %w", err)
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}
