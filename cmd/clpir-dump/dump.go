package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/clpir"
	"github.com/arloliu/clpir/ir"
	"github.com/bytedance/sonic"
)

type dumpConfig struct {
	stats bool
	raw   bool
	limit int
	top   int
}

type eventRecord struct {
	Timestamp  int64          `json:"timestamp"`
	Time       string         `json:"time"`
	Message    string         `json:"message,omitempty"`
	Logtype    string         `json:"logtype,omitempty"`
	Variables  []any          `json:"variables,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type statsRecord struct {
	Container        string          `json:"container"`
	Version          string          `json:"version"`
	TimeZone         string          `json:"tz_id,omitempty"`
	CompressedSize   int64           `json:"compressed_bytes"`
	DecompressedSize int64           `json:"decompressed_bytes"`
	Events           int             `json:"events"`
	DistinctLogtypes int             `json:"distinct_logtypes"`
	FirstTimestamp   int64           `json:"first_timestamp"`
	LastTimestamp    int64           `json:"last_timestamp"`
	HashCollision    bool            `json:"hash_collision"`
	TopLogtypes      []logtypeRecord `json:"top_logtypes"`
}

type logtypeRecord struct {
	ID      string `json:"id"`
	Logtype string `json:"logtype"`
	Count   int    `json:"count"`
}

func dump(ctx context.Context, w io.Writer, stream *clpir.Stream, cfg dumpConfig) error {
	if cfg.stats {
		return dumpStats(ctx, w, stream, cfg.top)
	}

	names := stream.Decoder().AttributeNames()
	loc := streamLocation(stream.Metadata().TimeZoneID)

	events := stream.Events()
	defer events.Close()

	n := 0
	for ev, err := range events.All() {
		if err != nil {
			return fmt.Errorf("event %d: %w", n, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := newEventRecord(ev, names, loc, cfg.raw)
		if err != nil {
			return fmt.Errorf("event %d: %w", n, err)
		}
		if err := writeJSONLine(w, rec); err != nil {
			return err
		}

		n++
		if cfg.limit > 0 && n >= cfg.limit {
			break
		}
	}

	return nil
}

// streamLocation resolves the stream's TZ_ID, falling back to UTC when it
// is empty or unknown.
func streamLocation(zoneID string) *time.Location {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return time.UTC
	}

	return loc
}

func newEventRecord(ev *ir.Event, names []string, loc *time.Location, raw bool) (eventRecord, error) {
	rec := eventRecord{
		Timestamp: ev.Timestamp,
		Time:      time.UnixMilli(ev.Timestamp).In(loc).Format(time.RFC3339Nano),
	}

	if raw {
		rec.Logtype = string(ev.Logtype)
		for _, v := range ev.Variables {
			if v.Kind == ir.VariableEncoded {
				rec.Variables = append(rec.Variables, v.Encoded)
			} else {
				rec.Variables = append(rec.Variables, string(v.Text))
			}
		}
	} else {
		msg, err := ev.Message()
		if err != nil {
			return eventRecord{}, err
		}
		rec.Message = msg
	}

	if len(ev.Attributes) > 0 {
		rec.Attributes = make(map[string]any, len(ev.Attributes))
		for i, attr := range ev.Attributes {
			rec.Attributes[attributeName(names, i)] = attr.Value()
		}
	}

	return rec, nil
}

func attributeName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}

	return fmt.Sprintf("#%d", i)
}

func dumpStats(ctx context.Context, w io.Writer, stream *clpir.Stream, top int) error {
	sum, err := stream.Summarize(ctx)
	if err != nil {
		return err
	}

	md := stream.Metadata()
	stats := stream.Stats()
	rec := statsRecord{
		Container:        stream.Container().String(),
		Version:          md.Version,
		TimeZone:         md.TimeZoneID,
		CompressedSize:   stats.CompressedSize,
		DecompressedSize: stats.DecompressedSize,
		Events:           sum.Events,
		DistinctLogtypes: sum.DistinctLogtypes,
		FirstTimestamp:   sum.FirstTimestamp,
		LastTimestamp:    sum.LastTimestamp,
		HashCollision:    sum.HashCollision,
		TopLogtypes:      make([]logtypeRecord, 0, len(sum.Logtypes)),
	}
	for i, lt := range sum.Logtypes {
		if top > 0 && i >= top {
			break
		}
		rec.TopLogtypes = append(rec.TopLogtypes, logtypeRecord{
			ID:      fmt.Sprintf("%016x", lt.ID),
			Logtype: lt.Logtype,
			Count:   lt.Count,
		})
	}

	return writeJSONLine(w, rec)
}

func writeJSONLine(w io.Writer, v any) error {
	line, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = w.Write(line)

	return err
}
