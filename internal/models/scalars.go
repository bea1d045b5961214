package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StationID identifies a station. Source documents carry it either as a JSON
// number or a JSON string, so it is kept as an opaque token.
type StationID string

// UnmarshalJSON accepts both `12` and `"12"`.
func (id *StationID) UnmarshalJSON(b []byte) error {
	s, err := scalarToken(b)
	if err != nil {
		return fmt.Errorf("station id: %w", err)
	}
	*id = StationID(s)
	return nil
}

func (id StationID) String() string { return string(id) }

// LineID identifies a transit line, including branch variants like "3bis".
type LineID string

// UnmarshalJSON accepts both `7` and `"7bis"`.
func (l *LineID) UnmarshalJSON(b []byte) error {
	s, err := scalarToken(b)
	if err != nil {
		return fmt.Errorf("line id: %w", err)
	}
	*l = LineID(s)
	return nil
}

func (l LineID) String() string { return string(l) }

// Flag is a boolean that also accepts the "True"/"False" strings produced by
// the network export.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = false
		return nil
	}

	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = Flag(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("flag: unsupported value %s", string(b))
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		*f = true
	case "false", "0", "no", "":
		*f = false
	default:
		return fmt.Errorf("flag: unsupported value %q", s)
	}
	return nil
}

// AttrValue renders the flag the way element attributes store booleans.
func (f Flag) AttrValue() string {
	if f {
		return "True"
	}
	return "False"
}

func scalarToken(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("unsupported value %s", string(b))
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}
