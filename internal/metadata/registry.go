// Package metadata describes the API entities (fields, references, lines)
// for generic clients, with labels translated per request locale.
package metadata

import (
	"sort"
)

// EntityType defines the category of the entity.
type EntityType string

const (
	TypeCatalog  EntityType = "catalog"
	TypeDocument EntityType = "document"
)

// FieldType defines the data type of a field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeNumber    FieldType = "number" // decimal quantity
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeReference FieldType = "reference"
	TypeEnum      FieldType = "enum"
	TypeMoney     FieldType = "money"
	TypeObject    FieldType = "object"
)

// EntityDef describes a business entity.
type EntityDef struct {
	Name       string         `json:"name"`
	Label      string         `json:"label,omitempty"`
	Type       EntityType     `json:"type"`
	Fields     []FieldDef     `json:"fields"`
	TableParts []TablePartDef `json:"tableParts,omitempty"`
}

// TablePartDef describes a nested collection (lines, rules).
type TablePartDef struct {
	Name    string     `json:"name"`
	Label   string     `json:"label,omitempty"`
	Columns []FieldDef `json:"columns"`
}

// FieldDef describes a field.
type FieldDef struct {
	Name          string    `json:"name"`
	Column        string    `json:"-"`
	Label         string    `json:"label,omitempty"`
	Help          string    `json:"help,omitempty"`
	Type          FieldType `json:"type"`
	ReferenceType string    `json:"referenceType,omitempty"` // e.g. "sale_type"
	Multiple      bool      `json:"multiple,omitempty"`
	Required      bool      `json:"required,omitempty"`
	ReadOnly      bool      `json:"readOnly,omitempty"`
	Scale         int       `json:"scale,omitempty"`
	Options       []string  `json:"options,omitempty"`
}

// WithOptions marks a field as an enum of the given values.
func (d EntityDef) WithOptions(field string, options ...string) EntityDef {
	for i := range d.Fields {
		if d.Fields[i].Name == field {
			d.Fields[i].Type = TypeEnum
			d.Fields[i].Options = options
		}
	}
	return d
}

// WithReference sets the entity a reference field points to.
func (d EntityDef) WithReference(field, referenceType string) EntityDef {
	for i := range d.Fields {
		if d.Fields[i].Name == field {
			d.Fields[i].ReferenceType = referenceType
		}
	}
	return d
}

// Labeler translates the label of an entity column; ok is false when the
// column has no translation.
type Labeler func(locale, entity, column string) (label, help string, ok bool)

// Registry stores entity definitions.
type Registry struct {
	entities map[string]EntityDef
	labeler  Labeler
}

// NewRegistry creates an empty registry. labeler may be nil.
func NewRegistry(labeler Labeler) *Registry {
	return &Registry{
		entities: make(map[string]EntityDef),
		labeler:  labeler,
	}
}

// Register adds or replaces a definition.
func (r *Registry) Register(def EntityDef) {
	r.entities[def.Name] = def
}

// Get returns the definition of name with labels in locale.
func (r *Registry) Get(name, locale string) (EntityDef, bool) {
	d, ok := r.entities[name]
	if !ok {
		return EntityDef{}, false
	}
	return r.localize(d, locale), true
}

// List returns every definition sorted by name.
func (r *Registry) List(locale string) []EntityDef {
	list := make([]EntityDef, 0, len(r.entities))
	for _, def := range r.entities {
		list = append(list, r.localize(def, locale))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (r *Registry) localize(def EntityDef, locale string) EntityDef {
	if r.labeler == nil {
		return def
	}
	fields := make([]FieldDef, len(def.Fields))
	copy(fields, def.Fields)
	for i := range fields {
		if label, help, ok := r.labeler(locale, def.Name, fields[i].Column); ok {
			fields[i].Label = label
			fields[i].Help = help
		}
	}
	def.Fields = fields
	return def
}
