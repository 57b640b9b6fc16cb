// Package dimless rescales a flow series into a unit-free form.
//
// Flow is divided by a characteristic scale chosen by the [Type] strategy and
// time is mapped affinely from its [min, max] range onto a configured
// interval. The time map is
//
//	t' = (t - min)/(max - min) * (maxTime + 1) + minTime
//
// where the +1 offset on maxTime is part of the established convention and
// consumers depend on the resulting range.
package dimless

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-flow/flow/series"
)

// Type selects the flow scale used by [Transform].
type Type int

const (
	// MeanTimeM1P1 divides flow by its mean; time defaults to [-1, 1].
	MeanTimeM1P1 Type = iota + 1
	// StdTimeM1P1 divides flow by its standard deviation; time defaults to [-1, 1].
	StdTimeM1P1
	// CustomTimeCustom divides flow by a characteristic flow value and the
	// upper time bound by a characteristic time value; time defaults to [0, 1].
	CustomTimeCustom
)

var typeNames = map[Type]string{
	MeanTimeM1P1:     "MEAN_TIME_M1_1",
	StdTimeM1P1:      "STD_TIME_M1_1",
	CustomTimeCustom: "CUSTOM_TIME_CUSTOM",
}

// Errors returned by the normalizer.
var (
	ErrUnsupportedType = errors.New("dimless: unsupported dimensionless type")
	ErrZeroScale       = errors.New("dimless: characteristic scale is zero")
)

// String returns the configuration name of t.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a configuration name to a Type.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// Config holds normalizer settings. Nil pointers select defaults.
type Config struct {
	Type Type

	// Std overrides the sample standard deviation for StdTimeM1P1.
	Std *float64

	CharacteristicFlow float64
	CharacteristicTime float64

	MinTime *float64
	MaxTime *float64
}

func (c Config) timeBounds() (lo, hi float64) {
	lo, hi = -1, 1
	if c.Type == CustomTimeCustom {
		lo = 0
	}
	if c.MinTime != nil {
		lo = *c.MinTime
	}
	if c.MaxTime != nil {
		hi = *c.MaxTime
	}
	return lo, hi
}

// Transform returns the dimensionless form of s.
func Transform(s *series.Series, cfg Config) (*series.Series, error) {
	if s.Len() == 0 {
		return nil, series.ErrEmpty
	}

	minTime, maxTime := cfg.timeBounds()

	var scale float64
	switch cfg.Type {
	case StdTimeM1P1:
		if cfg.Std != nil {
			scale = *cfg.Std
		} else {
			std, err := s.Std()
			if err != nil {
				return nil, err
			}
			scale = std
		}
	case MeanTimeM1P1:
		mean, err := s.Mean()
		if err != nil {
			return nil, err
		}
		scale = mean
	case CustomTimeCustom:
		if cfg.CharacteristicTime == 0 {
			return nil, fmt.Errorf("%w: characteristic time", ErrZeroScale)
		}
		scale = cfg.CharacteristicFlow
		maxTime /= cfg.CharacteristicTime
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, cfg.Type)
	}

	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: %s scale=%v", ErrZeroScale, cfg.Type, scale)
	}

	time, err := remapTime(s, minTime, maxTime)
	if err != nil {
		return nil, err
	}

	flow := make([]float64, s.Len())
	vecmath.ScaleBlock(flow, s.Flow, 1/scale)

	return &series.Series{Time: time, Flow: flow, Name: s.Name}, nil
}

// Centered returns Transform(s, cfg) with its own flow mean removed.
func Centered(s *series.Series, cfg Config) (*series.Series, error) {
	out, err := Transform(s, cfg)
	if err != nil {
		return nil, err
	}
	mean, err := out.Mean()
	if err != nil {
		return nil, err
	}
	for i := range out.Flow {
		out.Flow[i] -= mean
	}
	return out, nil
}

func remapTime(s *series.Series, minTime, maxTime float64) ([]float64, error) {
	lo, hi, err := s.TimeRange()
	if err != nil {
		return nil, err
	}
	if hi == lo {
		return nil, series.ErrZeroSpan
	}

	span := hi - lo
	out := make([]float64, s.Len())
	for i, t := range s.Time {
		out[i] = (t-lo)/span*(maxTime+1) + minTime
	}
	return out, nil
}
