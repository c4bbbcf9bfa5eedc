package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is an immutable WGS 84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid reports whether the pair lies inside the WGS 84 envelope.
func (c Coordinate) IsValid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Value stores the coordinate as a "lat,lng" text literal.
func (c Coordinate) Value() (driver.Value, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("coordinate: out of range (%f,%f)", c.Lat, c.Lng)
	}
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(c.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Lng, 'f', -1, 64),
	), nil
}

// Scan decodes the "lat,lng" text literal.
func (c *Coordinate) Scan(value interface{}) error {
	if value == nil {
		*c = Coordinate{}
		return nil
	}

	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("coordinate: unsupported scan type %T", value)
	}

	parts := strings.SplitN(strings.TrimSpace(raw), ",", 2)
	if len(parts) != 2 {
		return fmt.Errorf("coordinate: unexpected literal %q", raw)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return fmt.Errorf("coordinate: parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return fmt.Errorf("coordinate: parse lng: %w", err)
	}

	c.Lat = lat
	c.Lng = lng
	return nil
}

func toString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
