package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a list of strings as a JSON text column. JSON keeps the
// column readable on both sqlite and postgres without array-type support.
type StringList []string

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return l.parse([]byte(v))
	case []byte:
		return l.parse(v)
	default:
		return fmt.Errorf("StringList: unsupported Scan type %T", src)
	}
}

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	payload, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("StringList: marshal: %w", err)
	}
	return string(payload), nil
}

func (l *StringList) parse(payload []byte) error {
	if len(payload) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(payload, &out); err != nil {
		return fmt.Errorf("StringList: parse: %w", err)
	}
	*l = StringList(out)
	return nil
}
