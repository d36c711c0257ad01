package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// URLList is an ordered list of media URLs stored as a JSONB column.
type URLList []string

// Value implements driver.Valuer so sqlx can write the JSONB column.
func (l URLList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for reading the JSONB column.
func (l *URLList) Scan(src interface{}) error {
	if src == nil {
		*l = URLList{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for URLList: %T", src)
	}

	return json.Unmarshal(data, l)
}
