package model

import (
	"fmt"
	"strings"
)

// Classification is the zombie body type, fixed at spawn.
// It selects the walk/run speed pair.
type Classification uint8

const (
	Walker Classification = iota
	Runner
	Crawler
)

// AllClassifications lists every classification in declaration order.
var AllClassifications = []Classification{Walker, Runner, Crawler}

func (c Classification) String() string {
	switch c {
	case Walker:
		return "walker"
	case Runner:
		return "runner"
	case Crawler:
		return "crawler"
	default:
		return fmt.Sprintf("classification(%d)", uint8(c))
	}
}

// ParseClassification parses a classification name (case-insensitive).
func ParseClassification(s string) (Classification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "walker":
		return Walker, nil
	case "runner":
		return Runner, nil
	case "crawler":
		return Crawler, nil
	}
	return 0, fmt.Errorf("unknown classification %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler (used by yaml decoding).
func (c *Classification) UnmarshalText(text []byte) error {
	v, err := ParseClassification(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Speeds is a walk/run speed pair in world units per second.
type Speeds struct {
	Walk float64 `yaml:"walk"`
	Run  float64 `yaml:"run"`
}
