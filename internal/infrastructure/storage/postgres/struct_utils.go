package postgres

import (
	"reflect"
	"sync"
)

// column maps a "db" tag to the field index path inside the row struct.
type column struct {
	name  string
	index []int
}

// layouts caches the column layout of each row type.
var layouts sync.Map // reflect.Type -> []column

// layoutOf flattens embedded structs (entity.Catalog, entity.Document,
// entity.SaleTyped) into one ordered column list. Untagged and "-" fields
// are skipped.
func layoutOf(t reflect.Type) []column {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := layouts.Load(t); ok {
		return cached.([]column)
	}

	var cols []column
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			path := append(append([]int(nil), prefix...), i)

			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				walk(f.Type, path)
				continue
			}
			if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
				cols = append(cols, column{name: tag, index: path})
			}
		}
	}
	walk(t, nil)

	layouts.Store(t, cols)
	return cols
}

// ExtractDBColumns returns the columns of T in declaration order.
// Repositories call it once at construction.
//
//	columns := ExtractDBColumns[saletype.SaleType]()
//	// ["id", "deletion_mark", ..., "code", "name", "sequence", "journal_id", ...]
func ExtractDBColumns[T any]() []string {
	cols := layoutOf(reflect.TypeOf((*T)(nil)).Elem())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap returns the column values of v keyed by "db" tag, or nil
// when v is not a struct.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := layoutOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		res[c.name] = rv.FieldByIndex(c.index).Interface()
	}
	return res
}
