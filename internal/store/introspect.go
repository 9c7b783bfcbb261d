package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Column is one row of a table description.
type Column struct {
	Field    string
	Type     string
	Nullable bool
	Key      string
	Default  sql.NullString
	Extra    string
}

// ListTables returns the user tables of the connected schema.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	q := "SHOW TABLES"
	if s.dialect == SQLite {
		q = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	}

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DescribeTable returns the column layout of table. The name is interpolated,
// so callers must have checked it against the allow-list first; it is still
// quoted as an identifier.
func (s *Store) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	if s.dialect == SQLite {
		return s.describeSQLite(ctx, table)
	}
	return s.describeMySQL(ctx, table)
}

func (s *Store) describeMySQL(ctx context.Context, table string) ([]Column, error) {
	ident := "`" + strings.ReplaceAll(table, "`", "``") + "`"
	rows, err := s.db.QueryContext(ctx, "DESCRIBE "+ident)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			c       Column
			null    string
			key     sql.NullString
			extra   sql.NullString
			colType []byte
		)
		if err := rows.Scan(&c.Field, &colType, &null, &key, &c.Default, &extra); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		c.Type = string(colType)
		c.Nullable = null == "YES"
		c.Key = key.String
		c.Extra = extra.String
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *Store) describeSQLite(ctx context.Context, table string) ([]Column, error) {
	ident := `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+ident+")")
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			c       Column
			cid     int
			notNull int
			pk      int
		)
		if err := rows.Scan(&cid, &c.Field, &c.Type, &notNull, &c.Default, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		c.Nullable = notNull == 0 && pk == 0
		if pk > 0 {
			c.Key = "PRI"
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}
