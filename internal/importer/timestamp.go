package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// flexTime decodes the timestamp shapes found in document store exports:
// RFC 3339 strings, plain dates, Unix seconds or milliseconds, and
// {"_seconds", "_nanoseconds"} objects.
type flexTime struct {
	time.Time
}

// millisThreshold separates Unix seconds from Unix milliseconds.
const millisThreshold = 1e11

func (t *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return t.parseString(s)
	case '{':
		var obj struct {
			Seconds      *int64 `json:"seconds"`
			USeconds     *int64 `json:"_seconds"`
			Nanoseconds  int64  `json:"nanoseconds"`
			UNanoseconds int64  `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		switch {
		case obj.USeconds != nil:
			t.Time = time.Unix(*obj.USeconds, obj.UNanoseconds).UTC()
		case obj.Seconds != nil:
			t.Time = time.Unix(*obj.Seconds, obj.Nanoseconds).UTC()
		default:
			return fmt.Errorf("timestamp object has no seconds")
		}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("unsupported timestamp %s", b)
		}
		if math.Abs(n) >= millisThreshold {
			t.Time = time.UnixMilli(int64(n)).UTC()
		} else {
			sec, frac := math.Modf(n)
			t.Time = time.Unix(int64(sec), int64(frac*1e9)).UTC()
		}
		return nil
	}
}

func (t *flexTime) parseString(s string) error {
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
