package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Profile is the medical profile of a user. At most one exists per user.
type Profile struct {
	ID        string
	UserID    string
	Name      string
	Age       *int
	Weight    *float64
	Height    *float64
	BloodType *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Optional distinguishes a field that was absent from the request body
// (Set == false) from one explicitly sent, possibly as null (Value == nil).
type Optional[T any] struct {
	Set   bool
	Value *T
}

// ProfilePatch is a partial profile update. Only fields with Set are applied.
type ProfilePatch struct {
	Name      Optional[string]
	Age       Optional[int]
	Weight    Optional[float64]
	Height    Optional[float64]
	BloodType Optional[string]
}

// Apply writes the present fields of the patch onto p.
func (patch ProfilePatch) Apply(p *Profile) {
	if patch.Name.Set {
		p.Name = ""
		if patch.Name.Value != nil {
			p.Name = *patch.Name.Value
		}
	}
	if patch.Age.Set {
		p.Age = patch.Age.Value
	}
	if patch.Weight.Set {
		p.Weight = patch.Weight.Value
	}
	if patch.Height.Set {
		p.Height = patch.Height.Value
	}
	if patch.BloodType.Set {
		p.BloodType = patch.BloodType.Value
	}
}

// UnmarshalJSON decodes a lenient profile body. Numbers may arrive as JSON
// numbers or strings; anything unparsable, empty or out of range becomes null.
func (patch *ProfilePatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["name"]; ok {
		patch.Name = Optional[string]{Set: true, Value: parseString(v)}
	}
	if v, ok := raw["age"]; ok {
		patch.Age = Optional[int]{Set: true, Value: parseAge(v)}
	}
	if v, ok := raw["weight"]; ok {
		patch.Weight = Optional[float64]{Set: true, Value: parsePositive(v)}
	}
	if v, ok := raw["height"]; ok {
		patch.Height = Optional[float64]{Set: true, Value: parsePositive(v)}
	}
	if v, ok := raw["bloodType"]; ok {
		bt := parseString(v)
		if bt != nil && *bt == "" {
			bt = nil
		}
		patch.BloodType = Optional[string]{Set: true, Value: bt}
	}

	return nil
}

func parseString(v json.RawMessage) *string {
	var s *string
	if err := json.Unmarshal(v, &s); err != nil || s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

// parseNumber accepts 72, 72.5, "72" and " 72.5 ".
func parseNumber(v json.RawMessage) (float64, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return 0, false
	}

	var text string
	if v[0] == '"' {
		if err := json.Unmarshal(v, &text); err != nil {
			return 0, false
		}
	} else {
		text = string(v)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseAge(v json.RawMessage) *int {
	f, ok := parseNumber(v)
	if !ok || f < 0 || f > math.MaxInt32 {
		return nil
	}
	age := int(f)
	return &age
}

func parsePositive(v json.RawMessage) *float64 {
	f, ok := parseNumber(v)
	if !ok || f <= 0 {
		return nil
	}
	return &f
}
