package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("Invalid price")

// ParsePrice reads a price from a raw JSON value. Absent and null give nil; numbers and
// numeric strings ("25000", " 24999.50 ") are accepted. No range check is applied.
func ParsePrice(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrInvalidPrice
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrInvalidPrice
	}
	return &f, nil
}

// OptionalString reads a raw JSON value as a string pointer. Absent and null give nil;
// non-string scalars are kept in their JSON text form.
func OptionalString(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	txt := string(raw)
	return &txt
}
