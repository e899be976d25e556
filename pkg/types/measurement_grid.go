package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MeasurementGrid maps a measurement name to its value per size label,
// persisted as JSONB.
type MeasurementGrid map[string]map[string]string

// Value marshals the grid into JSON for Postgres.
func (g MeasurementGrid) Value() (driver.Value, error) {
	if g == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the grid.
func (g *MeasurementGrid) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("measurement grid: unsupported scan type %T", value)
	}

	result := make(MeasurementGrid)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*g = result
	return nil
}
