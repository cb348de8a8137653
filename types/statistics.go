package types

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

type StatisticsItem struct {
	Count uint64 `json:",omitempty"`
	Bytes uint64 `json:",omitempty"`
}

func (c StatisticsItem) String() string {
	return fmt.Sprintf("%d (%s)", c.Count, humanize.IBytes(c.Bytes))
}

// Statistics is a snapshot of what the filter did with the buffers it received.
type Statistics struct {
	Received                StatisticsItem
	Processed               StatisticsItem
	Bypassed                StatisticsItem
	PassedNotNegotiated     StatisticsItem
	PassedSizeMismatch      StatisticsItem
	MapFailures             StatisticsItem
	TrackingFailures        uint64        `json:",omitempty"`
	FormatMissing           uint64        `json:",omitempty"`
	ProcessingTimeSmoothed  time.Duration `json:",omitempty"`
	ProcessingTimeLastFrame time.Duration `json:",omitempty"`
}

func (s Statistics) String() string {
	return fmt.Sprintf(
		"received:%s processed:%s bypassed:%s not-negotiated:%s size-mismatch:%s map-failures:%s tracking-failures:%d format-missing:%d processing-time:%v",
		s.Received, s.Processed, s.Bypassed, s.PassedNotNegotiated, s.PassedSizeMismatch, s.MapFailures,
		s.TrackingFailures, s.FormatMissing, s.ProcessingTimeSmoothed,
	)
}

type CountersItem struct {
	Count atomic.Uint64
	Bytes atomic.Uint64
}

func (c *CountersItem) Increment(msgSize uint64) {
	c.Count.Add(1)
	c.Bytes.Add(msgSize)
}

func (c *CountersItem) ToStats() StatisticsItem {
	return StatisticsItem{
		Count: c.Count.Load(),
		Bytes: c.Bytes.Load(),
	}
}

// Counters is the live (atomically updated) counterpart of Statistics.
type Counters struct {
	Received            CountersItem
	Processed           CountersItem
	Bypassed            CountersItem
	PassedNotNegotiated CountersItem
	PassedSizeMismatch  CountersItem
	MapFailures         CountersItem
	TrackingFailures    atomic.Uint64
	FormatMissing       atomic.Uint64
}

func (c *Counters) ToStats() Statistics {
	return Statistics{
		Received:            c.Received.ToStats(),
		Processed:           c.Processed.ToStats(),
		Bypassed:            c.Bypassed.ToStats(),
		PassedNotNegotiated: c.PassedNotNegotiated.ToStats(),
		PassedSizeMismatch:  c.PassedSizeMismatch.ToStats(),
		MapFailures:         c.MapFailures.ToStats(),
		TrackingFailures:    c.TrackingFailures.Load(),
		FormatMissing:       c.FormatMissing.Load(),
	}
}
