package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tags is a set of free-form labels on a transaction. Some backend
// deployments return the column as a JSON-encoded string rather than a
// JSON array, so unmarshalling tolerates both encodings.
type Tags []string

// UnmarshalJSON accepts either a JSON array of strings or a JSON string
// containing an encoded array.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags: expected array or encoded string: %s", data)
	}
	if strings.TrimSpace(s) == "" {
		*t = nil
		return nil
	}
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		return fmt.Errorf("tags: invalid encoded array: %w", err)
	}
	*t = arr
	return nil
}

// BoolFlag is a bool that tolerates 0/1 and quoted wire encodings in
// addition to JSON true/false.
type BoolFlag bool

// UnmarshalJSON accepts true/false, 0/1, and their quoted forms.
func (b *BoolFlag) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true", "1", `"true"`, `"1"`:
		*b = true
	case "false", "0", `"false"`, `"0"`, "null":
		*b = false
	default:
		return fmt.Errorf("boolean flag: cannot parse %s", data)
	}
	return nil
}

// Value implements driver.Valuer so GORM stores the flag as a plain bool.
func (b BoolFlag) Value() (driver.Value, error) {
	return bool(b), nil
}

// Scan implements sql.Scanner, accepting the bool and integer encodings
// different drivers produce.
func (b *BoolFlag) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = false
	case bool:
		*b = BoolFlag(v)
	case int64:
		*b = v != 0
	case []byte:
		*b = len(v) > 0 && (v[0] == '1' || v[0] == 't' || v[0] == 'T')
	case string:
		*b = v == "1" || v == "true" || v == "t"
	default:
		return fmt.Errorf("boolean flag: cannot scan %T", src)
	}
	return nil
}
