// Package backup converts the ledger to and from its persisted JSON form:
// routine saves, versioned migrations, exports and imports.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"ghostledger/internal/core"
)

// SchemaVersion is written on every payload. Payloads without one are
// version 0.
const SchemaVersion = 3

var (
	ErrInvalidBackupFormat = errors.New("invalid backup format")
	ErrMalformedJSON       = errors.New("malformed JSON")
)

type envelope struct {
	SchemaVersion int `json:"schemaVersion"`
	core.FinanceData
}

// Encode serialises data with the current schema version.
func Encode(data core.FinanceData) ([]byte, error) {
	data.Normalize()
	b, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, FinanceData: data})
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return b, nil
}

// Decode parses a payload of any known schema version, migrating it to the
// current one. Totals in the payload are ignored; callers recompute them.
func Decode(raw []byte) (core.FinanceData, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return core.FinanceData{}, err
	}

	version, err := schemaVersion(obj)
	if err != nil {
		return core.FinanceData{}, err
	}
	if err := migrate(obj, version); err != nil {
		return core.FinanceData{}, fmt.Errorf("%w: %w", ErrInvalidBackupFormat, err)
	}
	for _, k := range []string{"expenses", "income"} {
		if _, ok := obj[k].([]any); !ok {
			return core.FinanceData{}, fmt.Errorf("%w: missing %q collection", ErrInvalidBackupFormat, k)
		}
	}

	migrated, err := json.Marshal(obj)
	if err != nil {
		return core.FinanceData{}, fmt.Errorf("%w: %w", ErrInvalidBackupFormat, err)
	}
	var env envelope
	if err := json.Unmarshal(migrated, &env); err != nil {
		return core.FinanceData{}, fmt.Errorf("%w: %w", ErrInvalidBackupFormat, err)
	}

	data := env.FinanceData
	data.Totals = core.Totals{}
	data.Normalize()
	if err := checkCategories(data); err != nil {
		return core.FinanceData{}, err
	}
	return data, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrMalformedJSON)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidBackupFormat)
	}
	return obj, nil
}

func schemaVersion(obj map[string]any) (int, error) {
	raw, ok := obj["schemaVersion"]
	if !ok {
		return 0, nil
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: schemaVersion is not a number", ErrInvalidBackupFormat)
	}
	v, err := n.Int64()
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: invalid schemaVersion %s", ErrInvalidBackupFormat, n)
	}
	if v > SchemaVersion {
		return 0, fmt.Errorf("%w: schemaVersion %d is newer than supported %d", ErrInvalidBackupFormat, v, SchemaVersion)
	}
	return int(v), nil
}

func checkCategories(d core.FinanceData) error {
	for _, e := range d.Expenses {
		if !e.Category.Valid() {
			return fmt.Errorf("%w: expense %s: %w %q", ErrInvalidBackupFormat, e.ID, core.ErrUnknownCategory, e.Category)
		}
	}
	for _, i := range d.Income {
		if !i.Category.Valid() {
			return fmt.Errorf("%w: income %s: %w %q", ErrInvalidBackupFormat, i.ID, core.ErrUnknownCategory, i.Category)
		}
	}
	for _, l := range d.Limits {
		if !l.Category.Valid() {
			return fmt.Errorf("%w: limit %s: %w %q", ErrInvalidBackupFormat, l.ID, core.ErrUnknownCategory, l.Category)
		}
	}
	return nil
}
