package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// soldFlag reads is_sold whatever the backend stored: a native boolean, a
// 0/1 integer, or text written by older clients.
type soldFlag bool

func (f *soldFlag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case bool:
		*f = soldFlag(v)
	case int64:
		*f = v != 0
	case float64:
		*f = v != 0
	case []byte:
		return f.parse(string(v))
	case string:
		return f.parse(v)
	default:
		return fmt.Errorf("is_sold: unsupported type %T", src)
	}
	return nil
}

func (f *soldFlag) parse(s string) error {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "0", "f", "false", "no":
		*f = false
		return nil
	case "1", "t", "true", "yes":
		*f = true
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*f = n != 0
		return nil
	}
	return fmt.Errorf("is_sold: cannot parse %q", s)
}

// unixSeconds is the REAL timestamp format of created_at and joined_at.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func fromUnixSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
