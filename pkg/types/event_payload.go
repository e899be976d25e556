package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// EventPayload is a free-form attribute bag persisted as JSONB.
type EventPayload map[string]any

// Value marshals the payload into JSON for Postgres.
func (p EventPayload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the payload.
func (p *EventPayload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("event payload: unsupported scan type %T", value)
	}

	result := make(EventPayload)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*p = result
	return nil
}
