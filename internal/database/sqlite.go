package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"spyreport/internal/schema"
)

type SQLiteExtractor struct {
	db *sql.DB
}

func (s *SQLiteExtractor) ExtractSchema(ctx context.Context, f Filter) (*schema.Schema, error) {
	sch := &schema.Schema{
		GeneratedAt: time.Now(),
	}

	tables, err := s.extractTables(ctx, f)
	if err != nil {
		return nil, err
	}
	sch.Tables = tables

	views, err := s.extractViews(ctx, f)
	if err != nil {
		return nil, err
	}
	sch.Views = views

	foreignKeys, err := s.extractForeignKeys(ctx, f, tables)
	if err != nil {
		return nil, err
	}
	sch.ForeignKeys = foreignKeys

	return sch, nil
}

func (s *SQLiteExtractor) objectNames(ctx context.Context, kind string, f Filter) ([]string, error) {
	query := `
        SELECT name
        FROM sqlite_master
        WHERE type = ? AND name NOT LIKE 'sqlite_%'
        ORDER BY name
    `

	rows, err := s.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if f.includes(name) {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

func (s *SQLiteExtractor) extractTables(ctx context.Context, f Filter) ([]schema.Table, error) {
	names, err := s.objectNames(ctx, "table", f)
	if err != nil {
		return nil, err
	}

	tables := make([]schema.Table, 0, len(names))
	for _, name := range names {
		columns, err := s.extractColumns(ctx, name)
		if err != nil {
			return nil, err
		}

		table := schema.Table{Name: name, Schema: "main", Columns: columns}
		for _, col := range columns {
			if col.IsPrimaryKey {
				table.PrimaryKeys = append(table.PrimaryKeys, col.Name)
			}
		}
		tables = append(tables, table)
	}

	return tables, nil
}

func (s *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var cid int
		var defaultValue sql.NullString
		var notNull int
		var pk int

		if err := rows.Scan(
			&cid,
			&col.Name,
			&col.Type,
			&notNull,
			&defaultValue,
			&pk,
		); err != nil {
			return nil, err
		}

		col.IsNullable = notNull == 0
		col.IsPrimaryKey = pk > 0
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (s *SQLiteExtractor) extractViews(ctx context.Context, f Filter) ([]schema.View, error) {
	names, err := s.objectNames(ctx, "view", f)
	if err != nil {
		return nil, err
	}

	views := make([]schema.View, 0, len(names))
	for _, name := range names {
		var definition sql.NullString
		err := s.db.QueryRowContext(ctx, "SELECT sql FROM sqlite_master WHERE type = 'view' AND name = ?", name).Scan(&definition)
		if err != nil {
			return nil, err
		}

		columns, err := s.extractColumns(ctx, name)
		if err != nil {
			return nil, err
		}

		views = append(views, schema.View{
			Name:       name,
			Schema:     "main",
			Definition: definition.String,
			Columns:    columns,
		})
	}

	return views, nil
}

func (s *SQLiteExtractor) extractForeignKeys(ctx context.Context, f Filter, tables []schema.Table) ([]schema.ForeignKey, error) {
	var foreignKeys []schema.ForeignKey
	for _, table := range tables {
		query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table.Name))

		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return nil, err
		}

		for rows.Next() {
			var fk schema.ForeignKey
			var id, seq int
			var to sql.NullString
			var match string

			if err := rows.Scan(
				&id,
				&seq,
				&fk.ReferencedTable,
				&fk.Column,
				&to,
				&fk.OnUpdate,
				&fk.OnDelete,
				&match,
			); err != nil {
				rows.Close()
				return nil, err
			}

			fk.Name = fmt.Sprintf("fk_%s_%s", table.Name, fk.Column)
			fk.Table = table.Name
			fk.ReferencedColumn = to.String

			if !f.keepsRelationship(fk) {
				continue
			}
			foreignKeys = append(foreignKeys, fk)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}

	return foreignKeys, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
