package repository

import "strings"

// Interval is a candle timeframe in the unified vocabulary.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval8h  Interval = "8h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval3d  Interval = "3d"
	Interval1w  Interval = "1w"
	Interval1M  Interval = "1M"
)

var unified = map[Interval]struct{}{
	Interval1m: {}, Interval3m: {}, Interval5m: {}, Interval15m: {}, Interval30m: {},
	Interval1h: {}, Interval2h: {}, Interval4h: {}, Interval6h: {}, Interval8h: {},
	Interval12h: {}, Interval1d: {}, Interval3d: {}, Interval1w: {}, Interval1M: {},
}

// IsValidInterval returns true if s is in the unified vocabulary.
func IsValidInterval(s string) bool {
	_, ok := unified[Interval(strings.TrimSpace(s))]
	return ok
}

// IntervalMapper translates unified intervals to a provider vocabulary.
type IntervalMapper struct {
	native   map[Interval]string
	accepted map[string]struct{}
	def      string
}

// NewIntervalMapper builds a mapper. A nil table means the provider uses the unified vocabulary.
func NewIntervalMapper(table map[Interval]string, def string) IntervalMapper {
	m := IntervalMapper{native: table, accepted: make(map[string]struct{}), def: def}
	for _, v := range table {
		m.accepted[v] = struct{}{}
	}
	return m
}

// Default is the provider's documented fallback.
func (m IntervalMapper) Default() string { return m.def }

// Normalize converts s to the native vocabulary. Unknown or empty input falls back to the default.
func (m IntervalMapper) Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return m.def
	}
	if m.native == nil {
		if IsValidInterval(s) {
			return s
		}
		return m.def
	}
	if v, ok := m.native[Interval(s)]; ok {
		return v
	}
	if _, ok := m.accepted[s]; ok {
		return s
	}
	return m.def
}
