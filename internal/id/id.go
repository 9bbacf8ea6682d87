package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cleared-dev/tally/internal/model"
)

// FormatTransactionID returns a transaction ID like "t000042".
func FormatTransactionID(seq int64) model.ID {
	return model.ID(fmt.Sprintf("t%06d", seq))
}

// ParseTransactionSeq parses "t000042" into 42. Bare numbers written by
// older versions ("1726000000000") parse as their own sequence.
func ParseTransactionSeq(txID model.ID) (int64, error) {
	s := strings.TrimPrefix(string(txID), "t")
	if s == "" {
		return 0, fmt.Errorf("invalid transaction ID format: %q", txID)
	}
	seq, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", txID, err)
	}
	if seq < 0 {
		return 0, fmt.Errorf("negative sequence in transaction ID %q", txID)
	}
	return seq, nil
}

// NextTransactionSeq returns the next unused sequence number. IDs that do
// not parse are ignored; they can never collide with a generated one.
func NextTransactionSeq(txns []model.Transaction) int64 {
	var maxSeq int64
	for _, t := range txns {
		seq, err := ParseTransactionSeq(t.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

// Source hands out opaque IDs for categories, notifications and goals.
type Source interface {
	New() model.ID
}

// UUIDSource generates random UUIDv4 strings.
type UUIDSource struct{}

// New returns a fresh UUID.
func (UUIDSource) New() model.ID {
	return model.ID(uuid.NewString())
}

// Sequence is a deterministic Source: "<prefix>1", "<prefix>2", ...
type Sequence struct {
	Prefix string
	n      int
}

// New returns the next ID in the sequence.
func (s *Sequence) New() model.ID {
	s.n++
	return model.ID(s.Prefix + strconv.Itoa(s.n))
}
