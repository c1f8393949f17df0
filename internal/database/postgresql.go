package database

import (
	"context"
	"database/sql"
	"time"

	"spyreport/internal/schema"
)

type PostgreSQLExtractor struct {
	db *sql.DB
}

func (p *PostgreSQLExtractor) ExtractSchema(ctx context.Context, f Filter) (*schema.Schema, error) {
	s := &schema.Schema{
		GeneratedAt: time.Now(),
	}

	tables, err := p.extractTables(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Tables = tables

	views, err := p.extractViews(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Views = views

	foreignKeys, err := p.extractForeignKeys(ctx, f)
	if err != nil {
		return nil, err
	}
	s.ForeignKeys = foreignKeys

	return s, nil
}

func (p *PostgreSQLExtractor) extractTables(ctx context.Context, f Filter) ([]schema.Table, error) {
	query := `
        SELECT t.table_name, COALESCE(obj_description(c.oid), '') as comment
        FROM information_schema.tables t
        LEFT JOIN pg_namespace n ON n.nspname = t.table_schema
        LEFT JOIN pg_class c ON c.relname = t.table_name AND c.relnamespace = n.oid
        WHERE t.table_schema = $1 AND t.table_type = 'BASE TABLE'
        ORDER BY t.table_name
    `

	rows, err := p.db.QueryContext(ctx, query, f.Schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var table schema.Table
		if err := rows.Scan(&table.Name, &table.Comment); err != nil {
			return nil, err
		}
		if !f.includes(table.Name) {
			continue
		}
		table.Schema = f.Schema
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tables {
		primaryKeys, err := p.extractPrimaryKeys(ctx, f.Schema, tables[i].Name)
		if err != nil {
			return nil, err
		}
		tables[i].PrimaryKeys = primaryKeys

		columns, err := p.extractColumns(ctx, f.Schema, tables[i].Name)
		if err != nil {
			return nil, err
		}
		for j := range columns {
			columns[j].IsPrimaryKey = contains(primaryKeys, columns[j].Name)
		}
		tables[i].Columns = columns
	}

	return tables, nil
}

func (p *PostgreSQLExtractor) extractColumns(ctx context.Context, schemaName, tableName string) ([]schema.Column, error) {
	query := `
        SELECT
            c.column_name,
            c.data_type,
            c.character_maximum_length,
            c.numeric_precision,
            c.numeric_scale,
            c.is_nullable = 'YES' as is_nullable,
            c.column_default,
            COALESCE(col_description(pgc.oid, c.ordinal_position), '') as comment
        FROM information_schema.columns c
        LEFT JOIN pg_namespace n ON n.nspname = c.table_schema
        LEFT JOIN pg_class pgc ON pgc.relname = c.table_name AND pgc.relnamespace = n.oid
        WHERE c.table_schema = $1 AND c.table_name = $2
        ORDER BY c.ordinal_position
    `

	rows, err := p.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var length, precision, scale sql.NullInt64
		var defaultValue sql.NullString

		if err := rows.Scan(
			&col.Name,
			&col.Type,
			&length,
			&precision,
			&scale,
			&col.IsNullable,
			&defaultValue,
			&col.Comment,
		); err != nil {
			return nil, err
		}

		if length.Valid {
			l := int(length.Int64)
			col.Length = &l
		}
		if precision.Valid {
			p := int(precision.Int64)
			col.Precision = &p
		}
		if scale.Valid {
			s := int(scale.Int64)
			col.Scale = &s
		}
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (p *PostgreSQLExtractor) extractPrimaryKeys(ctx context.Context, schemaName, tableName string) ([]string, error) {
	query := `
        SELECT kcu.column_name
        FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
            ON tc.constraint_name = kcu.constraint_name
            AND tc.table_schema = kcu.table_schema
        WHERE tc.table_schema = $1
            AND tc.table_name = $2
            AND tc.constraint_type = 'PRIMARY KEY'
        ORDER BY kcu.ordinal_position
    `

	rows, err := p.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var primaryKeys []string
	for rows.Next() {
		var columnName string
		if err := rows.Scan(&columnName); err != nil {
			return nil, err
		}
		primaryKeys = append(primaryKeys, columnName)
	}

	return primaryKeys, rows.Err()
}

func (p *PostgreSQLExtractor) extractViews(ctx context.Context, f Filter) ([]schema.View, error) {
	query := `
        SELECT table_name, COALESCE(view_definition, '')
        FROM information_schema.views
        WHERE table_schema = $1
        ORDER BY table_name
    `

	rows, err := p.db.QueryContext(ctx, query, f.Schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []schema.View
	for rows.Next() {
		var view schema.View
		if err := rows.Scan(&view.Name, &view.Definition); err != nil {
			return nil, err
		}
		if !f.includes(view.Name) {
			continue
		}
		view.Schema = f.Schema
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range views {
		columns, err := p.extractColumns(ctx, f.Schema, views[i].Name)
		if err != nil {
			return nil, err
		}
		views[i].Columns = columns
	}

	return views, nil
}

func (p *PostgreSQLExtractor) extractForeignKeys(ctx context.Context, f Filter) ([]schema.ForeignKey, error) {
	query := `
        SELECT
            tc.constraint_name,
            tc.table_name,
            kcu.column_name,
            ccu.table_name AS foreign_table_name,
            ccu.column_name AS foreign_column_name,
            rc.update_rule,
            rc.delete_rule
        FROM information_schema.table_constraints AS tc
        JOIN information_schema.key_column_usage AS kcu
            ON tc.constraint_name = kcu.constraint_name
        JOIN information_schema.constraint_column_usage AS ccu
            ON ccu.constraint_name = tc.constraint_name
        JOIN information_schema.referential_constraints AS rc
            ON rc.constraint_name = tc.constraint_name
        WHERE tc.constraint_type = 'FOREIGN KEY'
            AND tc.table_schema = $1
    `

	rows, err := p.db.QueryContext(ctx, query, f.Schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foreignKeys []schema.ForeignKey
	for rows.Next() {
		var fk schema.ForeignKey
		if err := rows.Scan(
			&fk.Name,
			&fk.Table,
			&fk.Column,
			&fk.ReferencedTable,
			&fk.ReferencedColumn,
			&fk.OnUpdate,
			&fk.OnDelete,
		); err != nil {
			return nil, err
		}

		if !f.keepsRelationship(fk) {
			continue
		}
		foreignKeys = append(foreignKeys, fk)
	}

	return foreignKeys, rows.Err()
}
