package metadata

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"saletype/internal/core/id"
)

var (
	idType      = reflect.TypeOf(id.ID{})
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// Inspect analyzes a struct and returns its EntityDef.
func Inspect(entity any, name string, entityType EntityType) EntityDef {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name == "" {
		name = snakeCase(t.Name())
	}

	def := EntityDef{
		Name:       name,
		Label:      guessLabel(t.Name()),
		Type:       entityType,
		Fields:     make([]FieldDef, 0),
		TableParts: make([]TablePartDef, 0),
	}

	inspectStruct(t, &def)

	return def
}

func inspectStruct(t reflect.Type, def *EntityDef) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.PkgPath != "" { // unexported
			continue
		}

		// Embedded structs are flattened
		if field.Anonymous {
			inspectStruct(field.Type, def)
			continue
		}

		if jsonName(field) == "-" {
			continue
		}

		// A slice of structs is a table part (lines, rules)
		if elem, ok := tablePartElem(field.Type); ok {
			def.TableParts = append(def.TableParts, TablePartDef{
				Name:    jsonName(field),
				Label:   guessLabel(field.Name),
				Columns: inspectColumns(elem),
			})
			continue
		}

		def.Fields = append(def.Fields, fieldDef(field))
	}
}

func inspectColumns(t reflect.Type) []FieldDef {
	cols := make([]FieldDef, 0)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" || jsonName(field) == "-" {
			continue
		}
		cols = append(cols, fieldDef(field))
	}
	return cols
}

func tablePartElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Slice {
		return nil, false
	}
	elem := t.Elem()
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct || elem == idType || elem == decimalType || elem == timeType {
		return nil, false
	}
	return elem, true
}

func fieldDef(field reflect.StructField) FieldDef {
	def := FieldDef{
		Name:     jsonName(field),
		Column:   dbName(field),
		Label:    guessLabel(field.Name),
		ReadOnly: isReadOnly(field),
	}
	mapFieldType(&def, field)
	return def
}

func mapFieldType(def *FieldDef, field reflect.StructField) {
	t := field.Type
	optional := false
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		optional = true
	}
	if t.Kind() == reflect.Slice && t.Elem() == idType {
		t = t.Elem()
		def.Multiple = true
		optional = true
	}

	switch t {
	case idType:
		def.Type = TypeReference
		def.ReferenceType = referenceType(field.Name)
		// ID is the entity itself
		def.Required = !optional && def.ReferenceType != ""
		return
	case timeType:
		def.Type = TypeDate
		return
	case decimalType:
		if isAmount(field.Name) {
			def.Type = TypeMoney
			def.Scale = 2
		} else {
			def.Type = TypeNumber
			def.Scale = 3
		}
		return
	}

	switch t.Kind() {
	case reflect.String:
		def.Type = TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		def.Type = TypeInteger
	case reflect.Float32, reflect.Float64:
		def.Type = TypeNumber
		def.Scale = 2
	case reflect.Bool:
		def.Type = TypeBoolean
	case reflect.Map, reflect.Struct:
		def.Type = TypeObject
	default:
		def.Type = TypeString
	}
}

func isAmount(name string) bool {
	return strings.Contains(name, "Amount") || strings.Contains(name, "Price") || strings.Contains(name, "Subtotal")
}

// referenceType guesses the referenced entity from the field name:
// "SaleTypeID" -> "sale_type", "ProductIDs" -> "product".
func referenceType(name string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(name, "IDs"), "ID")
	if base == name || base == "" {
		return ""
	}
	return snakeCase(base)
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	runes := []rune(field.Name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func dbName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("db"); ok && tag != "-" {
		return tag
	}
	return snakeCase(field.Name)
}

func isReadOnly(field reflect.StructField) bool {
	switch field.Name {
	case "ID", "Version", "CreatedAt", "UpdatedAt", "CreatedBy", "UpdatedBy", "PostedVersion", "Posted":
		return true
	}
	return false
}

// guessLabel splits a Go name into words: "SaleTypeID" -> "Sale Type".
func guessLabel(name string) string {
	name = strings.TrimSuffix(strings.TrimSuffix(name, "IDs"), "ID")
	return strings.Join(words(name), " ")
}

func snakeCase(name string) string {
	parts := words(name)
	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, "_")
}

func words(name string) []string {
	runes := []rune(name)
	var out []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prevLower := unicode.IsLower(runes[i-1])
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsUpper(runes[i]) && (prevLower || (unicode.IsUpper(runes[i-1]) && nextLower)) {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}
