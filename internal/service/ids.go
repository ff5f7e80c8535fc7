package service

import (
	"strconv"
	"sync"
	"time"
)

// idSource hands out creation-timestamp ids in Unix milliseconds. Ids are
// strictly increasing even when several are taken within one millisecond.
type idSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDSource(now func() time.Time) *idSource {
	return &idSource{now: now}
}

func (s *idSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return strconv.FormatInt(ms, 10)
}
