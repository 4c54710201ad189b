package database

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// TableSchema is one table's textual definition as presented to the
// query generator.
type TableSchema struct {
	Name string
	DDL  string
}

// SchemaDescriptor is an ordered snapshot of the visible catalog.
// It is rebuilt per request and never mutated after construction.
type SchemaDescriptor struct {
	Tables []TableSchema
}

// Text serializes the descriptor into generation context in the
// "Table: name / Schema: ddl" form the generator prompt expects.
func (d *SchemaDescriptor) Text() string {
	parts := make([]string, 0, len(d.Tables))
	for _, t := range d.Tables {
		parts = append(parts, fmt.Sprintf("Table: %s\nSchema: %s", t.Name, t.DDL))
	}
	return strings.Join(parts, "\n")
}

// Introspector reads the live catalog and renders visible table
// definitions. Tables in the sensitive set are excluded by allow-list
// difference: they are never read, not filtered out of rendered text.
type Introspector struct {
	db        *DB
	sensitive map[string]struct{}
	logger    *zap.Logger
}

// NewIntrospector creates an Introspector that hides the named tables.
func NewIntrospector(db *DB, sensitiveTables []string, logger *zap.Logger) *Introspector {
	sensitive := make(map[string]struct{}, len(sensitiveTables))
	for _, t := range sensitiveTables {
		sensitive[strings.ToLower(t)] = struct{}{}
	}
	return &Introspector{
		db:        db,
		sensitive: sensitive,
		logger:    logger.Named("introspector"),
	}
}

// Describe returns the schema of every visible table in the public
// schema, ordered by table name.
func (i *Introspector) Describe(ctx context.Context) (*SchemaDescriptor, error) {
	rows, err := i.db.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		if _, hidden := i.sensitive[strings.ToLower(name)]; hidden {
			continue
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	descriptor := &SchemaDescriptor{Tables: make([]TableSchema, 0, len(names))}
	for _, name := range names {
		ddl, err := i.tableDDL(ctx, name)
		if err != nil {
			return nil, err
		}
		descriptor.Tables = append(descriptor.Tables, TableSchema{Name: name, DDL: ddl})
	}

	i.logger.Debug("Described schema", zap.Int("tables", len(descriptor.Tables)))
	return descriptor, nil
}

// tableDDL renders a CREATE TABLE statement from information_schema.
// Postgres has no sqlite_master equivalent, so the definition is
// reconstructed from column and primary key metadata.
func (i *Introspector) tableDDL(ctx context.Context, table string) (string, error) {
	rows, err := i.db.Query(ctx, `
		SELECT c.column_name, c.data_type, c.is_nullable,
		       EXISTS (
		           SELECT 1
		           FROM information_schema.table_constraints tc
		           JOIN information_schema.key_column_usage kcu
		             ON tc.constraint_name = kcu.constraint_name
		            AND tc.table_schema = kcu.table_schema
		           WHERE tc.constraint_type = 'PRIMARY KEY'
		             AND tc.table_schema = c.table_schema
		             AND tc.table_name = c.table_name
		             AND kcu.column_name = c.column_name
		       ) AS is_primary
		FROM information_schema.columns c
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position`, table)
	if err != nil {
		return "", fmt.Errorf("failed to read columns for %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	var pks []string
	for rows.Next() {
		var name, dataType, nullable string
		var isPrimary bool
		if err := rows.Scan(&name, &dataType, &nullable, &isPrimary); err != nil {
			return "", fmt.Errorf("failed to scan column for %s: %w", table, err)
		}

		col := name + " " + dataType
		if nullable == "NO" && !isPrimary {
			col += " NOT NULL"
		}
		cols = append(cols, col)
		if isPrimary {
			pks = append(pks, name)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating columns for %s: %w", table, err)
	}

	if len(pks) > 0 {
		cols = append(cols, "PRIMARY KEY("+strings.Join(pks, ", ")+")")
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", ")), nil
}
