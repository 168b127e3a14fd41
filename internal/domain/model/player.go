// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Player is one leaderboard row as served by the upstream endpoint.
// The shape is owned by the upstream; every field is optional.
type Player struct {
	GamerName     Scalar `json:"gamer_name"`
	League        Scalar `json:"league"`
	Maps          Scalar `json:"maps"`
	Wins          Scalar `json:"wins"`
	Losses        Scalar `json:"losses"`
	WinPercentage Scalar `json:"win_percentage"`
}

// Name returns the display name, empty when missing.
func (p Player) Name() string { return p.GamerName.String() }

// Scalar is a lenient JSON scalar. It accepts strings, numbers and booleans,
// and degrades anything else (null, objects, arrays, absent) to blank.
type Scalar struct {
	text    string
	num     float64
	numeric bool
	present bool
	literal bool // came from a JSON number
}

// Text returns a present string scalar.
func Text(s string) Scalar {
	v := Scalar{text: s, present: true}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) {
		v.num, v.numeric = f, true
	}
	return v
}

// Number returns a present numeric scalar.
func Number(f float64) Scalar {
	return Scalar{text: strconv.FormatFloat(f, 'f', -1, 64), num: f, numeric: true, present: true, literal: true}
}

// String is the display text. Missing values are blank.
func (s Scalar) String() string { return s.text }

// Float64 returns the numeric value and whether there is one.
func (s Scalar) Float64() (float64, bool) { return s.num, s.numeric }

// Present reports whether the upstream supplied a usable value.
func (s Scalar) Present() bool { return s.present }

// UnmarshalJSON never fails on well-formed JSON.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	*s = Scalar{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Text(str)
	case 't', 'f':
		*s = Scalar{text: string(b), present: true}
	case 'n', '{', '[':
		// null, objects and arrays render blank
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			// out of float64 range; keep the literal for display
			*s = Scalar{text: string(b), present: true}
			return nil
		}
		*s = Number(f)
	}
	return nil
}

// MarshalJSON writes numbers as numbers, other present values as strings and
// missing values as null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch {
	case !s.present:
		return []byte("null"), nil
	case s.literal && s.numeric:
		return []byte(s.text), nil
	default:
		return json.Marshal(s.text)
	}
}
