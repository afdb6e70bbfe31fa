package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the domain as ["&", ["field", "=", value], ...].
func (d Domain) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(d))
	for _, term := range d {
		switch t := term.(type) {
		case Operator:
			out = append(out, string(t))
		case Leaf:
			out = append(out, []any{t.Field, string(t.Operator), t.Value})
		default:
			return nil, fmt.Errorf("marshal domain: unsupported term %T", term)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the array form produced by MarshalJSON.
// Integral numbers decode as int64, lists as []any.
func (d *Domain) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("unmarshal domain: %w", err)
	}

	result := make(Domain, 0, len(raw))
	for i, item := range raw {
		term, err := decodeTerm(item)
		if err != nil {
			return fmt.Errorf("unmarshal domain term %d: %w", i, err)
		}
		result = append(result, term)
	}
	*d = result
	return nil
}

func decodeTerm(item json.RawMessage) (Term, error) {
	var op string
	if err := json.Unmarshal(item, &op); err == nil {
		o := Operator(op)
		if o.arity() == 0 {
			return nil, fmt.Errorf("unknown operator %q", op)
		}
		return o, nil
	}

	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	var triple []any
	if err := dec.Decode(&triple); err != nil {
		return nil, err
	}
	if len(triple) != 3 {
		return nil, fmt.Errorf("leaf must have 3 elements, got %d", len(triple))
	}
	field, ok := triple[0].(string)
	if !ok {
		return nil, fmt.Errorf("leaf field must be a string")
	}
	cmp, ok := triple[1].(string)
	if !ok || !Comparator(cmp).Valid() {
		return nil, fmt.Errorf("unknown comparator %v", triple[1])
	}
	return Leaf{Field: field, Operator: Comparator(cmp), Value: normalizeValue(triple[2])}, nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		f, _ := val.Float64()
		return f
	case []any:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	}
	return v
}
