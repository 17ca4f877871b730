package domain

import (
	"sync"
	"time"
)

// EntryDateFormat is RFC 3339 with fixed nanosecond width so that string
// comparison of entry dates matches time order.
const EntryDateFormat = "2006-01-02T15:04:05.000000000Z"

// Stamper issues strictly increasing entry dates within one process. The
// store keys entries by (user, entry date), so two writes from the same
// request must never share a timestamp; dependent writes in a trade rely on
// this instead of sleeping between them.
type Stamper struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewStamper() *Stamper {
	return &Stamper{now: time.Now}
}

// NewStamperAt pins the wall clock, for tests.
func NewStamperAt(now func() time.Time) *Stamper {
	return &Stamper{now: now}
}

// Next returns an entry date strictly greater than any previously issued by
// this Stamper. If the wall clock has not advanced past the last issued
// value, the last value plus one nanosecond is used.
func (s *Stamper) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t.Format(EntryDateFormat)
}
