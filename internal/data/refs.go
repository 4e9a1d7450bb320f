package data

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ref is a reference to a related record. Stored sources return bare ids,
// but JSON payloads may carry either the raw id or an expanded object for
// the same field; both forms decode to the id.
type Ref struct {
	ID int64 `json:"id"`
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(r.ID, 10)), nil
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		r.ID = 0
		return nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			ID json.Number `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid reference object: %w", err)
		}
		id, err := obj.ID.Int64()
		if err != nil {
			return fmt.Errorf("invalid reference object id: %w", err)
		}
		r.ID = id
	case '"':
		id, err := strconv.ParseInt(string(bytes.Trim(data, `"`)), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid reference id string: %w", err)
		}
		r.ID = id
	default:
		id, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid reference id: %w", err)
		}
		r.ID = id
	}

	return nil
}

func (r *Ref) Scan(value any) error {
	switch v := value.(type) {
	case int64:
		r.ID = v
		return nil
	case nil:
		r.ID = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Ref", value)
	}
}

func (r Ref) Value() (driver.Value, error) {
	return r.ID, nil
}
