package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/auditoria/internal/common"
)

// Timestamp is a second-precision instant stored and serialized as
// "YYYY-MM-DD HH:MM:SS" text.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return common.FormatTimestamp(ts.Time)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return ts.parse(s)
}

// Value implements driver.Valuer.
func (ts Timestamp) Value() (driver.Value, error) {
	return ts.String(), nil
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.Time = time.Time{}
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case time.Time:
		ts.Time = v
		return nil
	default:
		return fmt.Errorf("timestamp: cannot scan %T", src)
	}
}

func (ts *Timestamp) parse(s string) error {
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}
	t, err := common.ParseTimestamp(s)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	ts.Time = t
	return nil
}
