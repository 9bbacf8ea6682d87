package model

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Goal is a user-defined target. Nothing derives from its fields, so they
// are kept as an opaque JSON object next to the id.
type Goal struct {
	ID     ID
	Fields map[string]any
}

// MarshalJSON flattens the id into the field object.
func (g Goal) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(g.Fields)+1)
	maps.Copy(out, g.Fields)
	out["id"] = g.ID
	return json.Marshal(out)
}

// UnmarshalJSON splits the id out of the field object.
func (g *Goal) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decoding goal: %w", err)
	}
	var id ID
	if v, ok := raw["id"]; ok {
		if err := id.UnmarshalJSON(v); err != nil {
			return err
		}
		delete(raw, "id")
	}
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("decoding goal field %s: %w", k, err)
		}
		fields[k] = val
	}
	g.ID = id
	g.Fields = fields
	return nil
}

// Clone returns a copy whose field map can be modified independently.
func (g Goal) Clone() Goal {
	return Goal{ID: g.ID, Fields: maps.Clone(g.Fields)}
}
