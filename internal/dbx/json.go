package dbx

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStrings stores a string list in a JSONB column. A nil list is written
// as an empty array so the column never holds SQL NULL.
type JSONStrings []string

// Value implements driver.Valuer.
func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (s *JSONStrings) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONStrings", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode json list: %w", err)
	}
	if len(out) == 0 {
		out = nil
	}
	*s = out
	return nil
}
