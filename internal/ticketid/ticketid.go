// Package ticketid formats human-readable ticket identifiers and generates
// opaque note ids.
package ticketid

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Prefix is the fixed ticket id prefix.
const Prefix = "TCK"

// Pattern matches every id this package can produce.
var Pattern = regexp.MustCompile(`^[A-Z]+-\d{8}-\d{4}$`)

// Format renders the id for a sequence number at the given instant:
// TCK-YYYYMMDD-NNNN, where NNNN is seq mod 10000 zero-padded. The sequence
// wraps within a calendar day, so uniqueness under sustained high volume is
// the caller's problem; callers keep seq monotonically increasing for the
// process lifetime.
func Format(seq int, at time.Time) string {
	n := seq % 10000
	if n < 0 {
		n += 10000
	}
	return fmt.Sprintf("%s-%s-%04d", Prefix, at.UTC().Format("20060102"), n)
}

// Valid reports whether id matches the generator's pattern.
func Valid(id string) bool {
	return Pattern.MatchString(id)
}

// NoteID returns a fresh opaque id for a note or event.
func NoteID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Sequence is a process-lifetime monotonic counter for ticket ids.
type Sequence struct {
	n atomic.Int64
}

// NewSequence starts a sequence at start, so the first Next returns start.
func NewSequence(start int) *Sequence {
	s := &Sequence{}
	s.n.Store(int64(start))
	return s
}

// Next returns the current value and advances the counter.
func (s *Sequence) Next() int {
	return int(s.n.Add(1) - 1)
}

// NextID formats a fresh id at the current instant.
func (s *Sequence) NextID() string {
	return Format(s.Next(), time.Now())
}
