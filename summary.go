package clpir

import (
	"cmp"
	"context"
	"slices"

	"github.com/arloliu/clpir/internal/dict"
)

// LogtypeCount is one distinct logtype and the number of events using it.
type LogtypeCount struct {
	ID      uint64
	Logtype string
	Count   int
}

// Summary describes the events of a stream.
type Summary struct {
	Events           int
	DistinctLogtypes int
	FirstTimestamp   int64
	LastTimestamp    int64
	// HashCollision reports whether two logtypes shared an xxHash64 ID.
	HashCollision bool
	// Logtypes are sorted by descending count, then by first appearance.
	Logtypes []LogtypeCount
}

// Summarize reads every event of the stream from the start and counts its
// logtypes. The stream is rewound before and after.
func (s *Stream) Summarize(ctx context.Context) (Summary, error) {
	if err := s.Rewind(); err != nil {
		return Summary{}, err
	}
	defer func() { _ = s.Rewind() }()

	events := s.Events()
	defer events.Close()

	logtypes := dict.New()
	var sum Summary
	for ev, err := range events.All() {
		if err != nil {
			return Summary{}, err
		}
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}

		if sum.Events == 0 {
			sum.FirstTimestamp = ev.Timestamp
		}
		sum.LastTimestamp = ev.Timestamp
		sum.Events++
		logtypes.Add(ev.Logtype)
	}

	sum.DistinctLogtypes = logtypes.Len()
	sum.HashCollision = logtypes.HasCollision()
	sum.Logtypes = make([]LogtypeCount, 0, logtypes.Len())
	for _, e := range logtypes.Entries() {
		sum.Logtypes = append(sum.Logtypes, LogtypeCount{ID: e.ID, Logtype: e.Logtype, Count: e.Count})
	}
	slices.SortStableFunc(sum.Logtypes, func(a, b LogtypeCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return sum, nil
}
