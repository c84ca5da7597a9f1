package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Decimal reads a JSON number or numeric string.
func Decimal(raw json.RawMessage) (decimal.Decimal, error) {
	s := unquote(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal %q: %w", s, err)
	}
	return d, nil
}

// Int64 reads a JSON integer or integer string.
func Int64(raw json.RawMessage) (int64, error) {
	s := unquote(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("int %q: %w", s, err)
	}
	return n, nil
}

// Millis reads an epoch-milliseconds field as UTC time.
func Millis(raw json.RawMessage) (time.Time, error) {
	ms, err := Int64(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func unquote(raw json.RawMessage) string {
	b := bytes.TrimSpace(raw)
	if bytes.Equal(b, []byte("null")) {
		return ""
	}
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	return string(b)
}

// LimitOr returns limit when positive, def otherwise.
func LimitOr(limit, def int) int {
	if limit > 0 {
		return limit
	}
	return def
}
