// Package persist loads, validates, migrates and saves the ledger blob, and
// reads and writes the export file.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/cleared-dev/tally/internal/analytics"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/storage"
)

// Storage keys.
const (
	DataKey  = "expenseManagerData"
	SetupKey = "expenseManagerSetup"
)

// ErrCorruptState marks a blob that failed structural validation.
var ErrCorruptState = errors.New("corrupt state")

var (
	requiredKeys = []string{"transactions", "categories", "budget", "notifications", "preferences", "analytics", "goals", "ui"}
	arrayKeys    = []string{"transactions", "categories", "notifications", "goals"}
	objectKeys   = []string{"preferences", "analytics"}
)

// Validate checks the shape of a serialized state: every top-level key is
// present, list keys hold arrays, preferences and analytics hold objects,
// and analytics.currentMonth exists.
func Validate(raw []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	for _, k := range requiredKeys {
		if _, ok := top[k]; !ok {
			return fmt.Errorf("%w: missing key %q", ErrCorruptState, k)
		}
	}
	for _, k := range arrayKeys {
		if jsonKind(top[k]) != '[' {
			return fmt.Errorf("%w: %q is not an array", ErrCorruptState, k)
		}
	}
	for _, k := range objectKeys {
		if jsonKind(top[k]) != '{' {
			return fmt.Errorf("%w: %q is not an object", ErrCorruptState, k)
		}
	}
	var an map[string]json.RawMessage
	if err := json.Unmarshal(top["analytics"], &an); err != nil {
		return fmt.Errorf("%w: analytics: %v", ErrCorruptState, err)
	}
	if _, ok := an["currentMonth"]; !ok {
		return fmt.Errorf("%w: missing analytics.currentMonth", ErrCorruptState)
	}
	return nil
}

// jsonKind returns the first significant byte of a JSON value.
func jsonKind(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}

// Decode validates raw and decodes it over the fresh state, so fields
// added since the blob was written keep their defaults.
func Decode(raw []byte) (model.State, error) {
	if err := Validate(raw); err != nil {
		return model.State{}, err
	}
	s := model.Fresh()
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	s.Normalize()
	return s, nil
}

// Encode serializes s.
func Encode(s model.State) ([]byte, error) {
	s.Normalize()
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Migrate repairs a decoded state so the ledger rules hold whatever version
// wrote it: duplicate transaction ids get fresh ones, references to missing
// categories become Uncategorized, and every mirror is recomputed.
func Migrate(s model.State, asOf model.Date) model.State {
	live := make(map[model.ID]bool, len(s.Categories))
	for _, c := range s.Categories {
		live[c.ID] = true
	}
	seen := make(map[model.ID]bool, len(s.Transactions))
	next := max(id.NextTransactionSeq(s.Transactions), s.LastTransactionSeq+1)
	s.Transactions = slices.Clone(s.Transactions)
	for i := range s.Transactions {
		t := &s.Transactions[i]
		if t.ID == "" || seen[t.ID] {
			t.ID = id.FormatTransactionID(next)
			next++
		}
		seen[t.ID] = true
		if t.Category != model.Uncategorized && !live[t.Category] {
			t.Category = model.Uncategorized
		}
	}
	s.LastTransactionSeq = max(s.LastTransactionSeq, next-1)
	return analytics.Recompute(s, asOf)
}

// Load reads the ledger from st. It always returns a usable state: a
// missing blob yields the fresh state, and a corrupt or unreadable one
// yields the fresh state together with the error so the caller can log it.
func Load(ctx context.Context, st storage.Storage, asOf model.Date) (model.State, error) {
	raw, err := st.Get(ctx, DataKey)
	if errors.Is(err, storage.ErrNotFound) {
		return Migrate(model.Fresh(), asOf), nil
	}
	if err != nil {
		return Migrate(model.Fresh(), asOf), fmt.Errorf("loading state: %w", err)
	}
	s, err := Decode(raw)
	if err != nil {
		return Migrate(model.Fresh(), asOf), err
	}
	return Migrate(s, asOf), nil
}

// Save writes the whole state under DataKey in one Set.
func Save(ctx context.Context, st storage.Storage, s model.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := st.Set(ctx, DataKey, data); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Clear removes the persisted ledger and the setup record, so a cleared
// install does not complete setup again on the next start.
func Clear(ctx context.Context, st storage.Storage) error {
	for _, key := range []string{DataKey, SetupKey} {
		if err := st.Remove(ctx, key); err != nil {
			return fmt.Errorf("clearing %s: %w", key, err)
		}
	}
	return nil
}
