package catalog

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-loadout/internal/storage"
)

// DefaultCurveLevel is the level a curve magnitude is evaluated at when the
// magnitude does not name one.
const DefaultCurveLevel = 1.0

// Magnitude is either a flat number or a reference to a Curve asset. A
// curve is evaluated at Level, or at DefaultCurveLevel when Level is unset.
type Magnitude struct {
	Flat  float64                          `json:"flat,omitempty"`
	Curve *storage.SmartIdentifier[*Curve] `json:"curve,omitempty"`
	Level *float64                         `json:"level,omitempty"`
}

// FlatMagnitude returns a Magnitude that always evaluates to v.
func FlatMagnitude(v float64) Magnitude {
	return Magnitude{Flat: v}
}

// CurveMagnitude returns a Magnitude evaluated from c at level.
func CurveMagnitude(key storage.Identifier, c *Curve, level float64) Magnitude {
	id := storage.NewResolvedSmartIdentifier(key, c)
	return Magnitude{Curve: &id, Level: &level}
}

// Value evaluates the magnitude. Curve magnitudes must have been resolved.
func (m Magnitude) Value() float64 {
	if m.Curve == nil || !m.Curve.IsResolved() {
		return m.Flat
	}
	level := DefaultCurveLevel
	if m.Level != nil {
		level = *m.Level
	}
	return m.Curve.Get().Eval(level)
}

func (m *Magnitude) resolve(curves storage.Storer[*Curve]) error {
	if m.Curve == nil || m.Curve.IsResolved() {
		return nil
	}
	if curves == nil {
		return fmt.Errorf("curve %q referenced but no curves are loaded", m.Curve.Key())
	}
	return m.Curve.Resolve(curves)
}

// CurvePoint is one sample of a Curve.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve maps a level to a value by linear interpolation between points.
// Values outside the sampled range clamp to the first or last point.
type Curve struct {
	Points []CurvePoint `json:"points"`
}

func (c *Curve) Validate() error {
	el := errors.NewErrorList()

	if len(c.Points) == 0 {
		el.Add(fmt.Errorf("curve requires at least one point"))
	}
	for i := 1; i < len(c.Points); i++ {
		if c.Points[i].X <= c.Points[i-1].X {
			el.Add(fmt.Errorf("curve point %d: x must be strictly increasing", i))
		}
	}

	return el.Err()
}

func (c *Curve) Eval(x float64) float64 {
	n := len(c.Points)
	if n == 0 {
		return 0
	}
	if x <= c.Points[0].X {
		return c.Points[0].Y
	}
	if x >= c.Points[n-1].X {
		return c.Points[n-1].Y
	}

	for i := 1; i < n; i++ {
		hi := c.Points[i]
		if x > hi.X {
			continue
		}
		lo := c.Points[i-1]
		t := (x - lo.X) / (hi.X - lo.X)
		return lo.Y + t*(hi.Y-lo.Y)
	}
	return c.Points[n-1].Y
}
