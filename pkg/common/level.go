package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type LevelKind string

const (
	LevelAbsolute      LevelKind = "absolute"
	LevelPercentOfSpot LevelKind = "percent"
)

// Level is a strike or barrier expressed either as an absolute rate or as a
// percentage of the spot it is resolved against.
type Level struct {
	Value float64   `json:"value" yaml:"value"`
	Kind  LevelKind `json:"kind" yaml:"kind"`
}

func Absolute(value float64) Level {
	return Level{Value: value, Kind: LevelAbsolute}
}

func PercentOfSpot(value float64) Level {
	return Level{Value: value, Kind: LevelPercentOfSpot}
}

// ParseLevel accepts "1.08" (absolute) and "95%" (percent of spot).
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Level{}, fmt.Errorf("%w: empty", ErrInvalidLevel)
	}

	kind := LevelAbsolute
	if strings.HasSuffix(s, "%") {
		kind = LevelPercentOfSpot
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Level{}, fmt.Errorf("%w: %q: %v", ErrInvalidLevel, s, err)
	}
	return Level{Value: v, Kind: kind}, nil
}

func (l Level) Resolve(spot float64) (float64, error) {
	var v float64
	switch l.Kind {
	case LevelAbsolute, "":
		v = l.Value
	case LevelPercentOfSpot:
		v = spot * l.Value / 100
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidLevel, l.Kind)
	}

	if !isFinite(v) || v <= 0 {
		return 0, fmt.Errorf("%w: resolved value must be positive, got %v", ErrInvalidLevel, v)
	}
	return v, nil
}

func (l Level) String() string {
	if l.Kind == LevelPercentOfSpot {
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "%"
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalJSON accepts a bare number, a level string or the {"value","kind"} object.
func (l *Level) UnmarshalJSON(data []byte) error {
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*l = Absolute(number)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return l.UnmarshalText([]byte(text))
	}

	type plain Level
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if obj.Kind == "" {
		obj.Kind = LevelAbsolute
	}
	*l = Level(obj)
	return nil
}
