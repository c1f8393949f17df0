package schema

import "time"

type Schema struct {
	Database    string       `json:"database"`
	Type        string       `json:"type"`
	Name        string       `json:"schema"`
	Description string       `json:"description,omitempty"`
	Tables      []Table      `json:"tables"`
	Views       []View       `json:"views"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
	GeneratedAt time.Time    `json:"generated_at"`
}

type Table struct {
	Name        string   `json:"name"`
	Schema      string   `json:"schema"`
	Columns     []Column `json:"columns"`
	PrimaryKeys []string `json:"primary_keys"`
	Comment     string   `json:"comment,omitempty"`
}

type View struct {
	Name       string   `json:"name"`
	Schema     string   `json:"schema"`
	Definition string   `json:"definition,omitempty"`
	Columns    []Column `json:"columns"`
	Comment    string   `json:"comment,omitempty"`
}

type Column struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Length       *int    `json:"length,omitempty"`
	Precision    *int    `json:"precision,omitempty"`
	Scale        *int    `json:"scale,omitempty"`
	IsNullable   bool    `json:"is_nullable"`
	DefaultValue *string `json:"default_value,omitempty"`
	IsPrimaryKey bool    `json:"is_primary_key"`
	Comment      string  `json:"comment,omitempty"`
}

type ForeignKey struct {
	Name             string `json:"name"`
	Table            string `json:"table"`
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
	OnUpdate         string `json:"on_update"`
	OnDelete         string `json:"on_delete"`
}

// DropTableComments clears table and view comments, leaving column comments.
func (s *Schema) DropTableComments() {
	for i := range s.Tables {
		s.Tables[i].Comment = ""
	}
	for i := range s.Views {
		s.Views[i].Comment = ""
	}
}
