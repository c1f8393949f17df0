package database

import (
	"context"
	"database/sql"
	"time"

	"spyreport/internal/schema"
)

type MySQLExtractor struct {
	db *sql.DB
}

func (m *MySQLExtractor) ExtractSchema(ctx context.Context, f Filter) (*schema.Schema, error) {
	s := &schema.Schema{
		GeneratedAt: time.Now(),
	}

	tables, views, err := m.extractObjects(ctx, f)
	if err != nil {
		return nil, err
	}
	s.Tables = tables
	s.Views = views

	foreignKeys, err := m.extractForeignKeys(ctx, f)
	if err != nil {
		return nil, err
	}
	s.ForeignKeys = foreignKeys

	return s, nil
}

func (m *MySQLExtractor) extractObjects(ctx context.Context, f Filter) ([]schema.Table, []schema.View, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT TABLE_NAME, TABLE_TYPE, COALESCE(TABLE_COMMENT, '')
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME
	`, f.Schema)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var tables []schema.Table
	var views []schema.View
	for rows.Next() {
		var name, tableType, comment string
		if err := rows.Scan(&name, &tableType, &comment); err != nil {
			return nil, nil, err
		}
		if !f.includes(name) {
			continue
		}
		if tableType == "VIEW" {
			views = append(views, schema.View{Name: name, Schema: f.Schema})
			continue
		}
		tables = append(tables, schema.Table{Name: name, Schema: f.Schema, Comment: comment})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	for i := range tables {
		columns, err := m.extractColumns(ctx, f.Schema, tables[i].Name)
		if err != nil {
			return nil, nil, err
		}
		tables[i].Columns = columns
		for _, col := range columns {
			if col.IsPrimaryKey {
				tables[i].PrimaryKeys = append(tables[i].PrimaryKeys, col.Name)
			}
		}
	}
	for i := range views {
		columns, err := m.extractColumns(ctx, f.Schema, views[i].Name)
		if err != nil {
			return nil, nil, err
		}
		views[i].Columns = columns
	}

	return tables, views, nil
}

func (m *MySQLExtractor) extractColumns(ctx context.Context, schemaName, tableName string) ([]schema.Column, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION,
		       NUMERIC_SCALE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY, COALESCE(COLUMN_COMMENT, '')
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var length, precision, scale sql.NullInt64
		var nullable, key string
		var defaultValue sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &length, &precision, &scale,
			&nullable, &defaultValue, &key, &col.Comment); err != nil {
			return nil, err
		}

		col.IsNullable = nullable == "YES"
		col.IsPrimaryKey = key == "PRI"
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

func (m *MySQLExtractor) extractForeignKeys(ctx context.Context, f Filter) ([]schema.ForeignKey, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT k.CONSTRAINT_NAME, k.TABLE_NAME, k.COLUMN_NAME,
		       k.REFERENCED_TABLE_NAME, k.REFERENCED_COLUMN_NAME,
		       r.UPDATE_RULE, r.DELETE_RULE
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE k
		JOIN INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS r
		  ON r.CONSTRAINT_SCHEMA = k.CONSTRAINT_SCHEMA
		 AND r.CONSTRAINT_NAME = k.CONSTRAINT_NAME
		WHERE k.TABLE_SCHEMA = ? AND k.REFERENCED_TABLE_NAME IS NOT NULL
		ORDER BY k.TABLE_NAME, k.ORDINAL_POSITION
	`, f.Schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foreignKeys []schema.ForeignKey
	for rows.Next() {
		var fk schema.ForeignKey
		if err := rows.Scan(&fk.Name, &fk.Table, &fk.Column, &fk.ReferencedTable,
			&fk.ReferencedColumn, &fk.OnUpdate, &fk.OnDelete); err != nil {
			return nil, err
		}
		if !f.keepsRelationship(fk) {
			continue
		}
		foreignKeys = append(foreignKeys, fk)
	}
	return foreignKeys, rows.Err()
}
