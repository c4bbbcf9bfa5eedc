package types

import "testing"

func TestCoordinateIsValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		coord Coordinate
		want  bool
	}{
		{"karachi", Coordinate{Lat: 24.8607, Lng: 67.0011}, true},
		{"lat overflow", Coordinate{Lat: 91, Lng: 0}, false},
		{"lng underflow", Coordinate{Lat: 0, Lng: -180.5}, false},
		{"zero", Coordinate{}, true},
	}
	for _, tc := range cases {
		if got := tc.coord.IsValid(); got != tc.want {
			t.Fatalf("%s: IsValid()=%v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCoordinateValueScanRoundTrip(t *testing.T) {
	t.Parallel()

	orig := Coordinate{Lat: 31.5204, Lng: 74.3587}
	val, err := orig.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var got Coordinate
	if err := got.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got != orig {
		t.Fatalf("round trip mismatch: %+v != %+v", got, orig)
	}
}

func TestCoordinateScanRejectsGarbage(t *testing.T) {
	t.Parallel()

	var c Coordinate
	if err := c.Scan("not-a-coordinate"); err == nil {
		t.Fatal("expected error for malformed literal")
	}
}

func TestCoordinateValueRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	if _, err := (Coordinate{Lat: 120, Lng: 0}).Value(); err == nil {
		t.Fatal("expected error for out-of-range coordinate")
	}
}
