package behavior

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownParam is returned when a tunable is addressed by a name that
// does not exist.
var ErrUnknownParam = errors.New("unknown parameter")

// ErrInvalidParam is returned when a tunable is given an out of range value.
var ErrInvalidParam = errors.New("invalid parameter value")

// Params holds every tunable read by the behaviours. All agents share one
// instance; the user interface changes it between ticks.
type Params struct {
	SeparationWeight    float64 `json:"separationWeight"`
	VelocityMatchWeight float64 `json:"velocityMatchWeight"`
	CohesionWeight      float64 `json:"cohesionWeight"`

	// InitialEscapeAngle is in degrees, EscapeSteps is the sweep resolution.
	InitialEscapeAngle float64 `json:"initialEscapeAngle"`
	EscapeSteps        int     `json:"escapeSteps"`
	// TurnRate is the maximum heading change in degrees per second.
	TurnRate float64 `json:"turnRate"`

	SenseRadius              float64 `json:"senseRadius"`
	MinSeparationDist        float64 `json:"minSeparationDist"`
	SeparationForceAtMinDist float64 `json:"separationForceAtMinDist"`
	CruiseSpeed              float64 `json:"cruiseSpeed"`

	DrawSeparation    bool `json:"drawSeparation"`
	DrawVelocityMatch bool `json:"drawVelocityMatch"`
	DrawCohesion      bool `json:"drawCohesion"`
	DrawAvoidance     bool `json:"drawAvoidance"`
	DrawPhysics       bool `json:"drawPhysics"`
}

// DefaultParams returns the stock tuning. Every draw toggle starts off.
func DefaultParams() Params {
	return Params{
		SeparationWeight:         1,
		VelocityMatchWeight:      1,
		CohesionWeight:           1,
		InitialEscapeAngle:       15,
		EscapeSteps:              6,
		TurnRate:                 240,
		SenseRadius:              1,
		MinSeparationDist:        0.25,
		SeparationForceAtMinDist: 2,
		CruiseSpeed:              3,
	}
}

// Validate checks that the numeric tunables are usable.
func (p *Params) Validate() error {
	var errs []error
	check := func(name string, ok bool, v any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s = %v", ErrInvalidParam, name, v))
		}
	}
	check("separationWeight", finite(p.SeparationWeight), p.SeparationWeight)
	check("velocityMatchWeight", finite(p.VelocityMatchWeight), p.VelocityMatchWeight)
	check("cohesionWeight", finite(p.CohesionWeight), p.CohesionWeight)
	check("initialEscapeAngle", p.InitialEscapeAngle >= 0 && p.InitialEscapeAngle < 180, p.InitialEscapeAngle)
	check("escapeSteps", p.EscapeSteps >= 1, p.EscapeSteps)
	check("turnRate", finite(p.TurnRate) && p.TurnRate >= 0, p.TurnRate)
	check("senseRadius", finite(p.SenseRadius) && p.SenseRadius > 0, p.SenseRadius)
	check("minSeparationDist", finite(p.MinSeparationDist) && p.MinSeparationDist > 0, p.MinSeparationDist)
	check("separationForceAtMinDist", finite(p.SeparationForceAtMinDist) && p.SeparationForceAtMinDist >= 0, p.SeparationForceAtMinDist)
	check("cruiseSpeed", finite(p.CruiseSpeed) && p.CruiseSpeed >= 0, p.CruiseSpeed)
	return errors.Join(errs...)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

type paramField struct {
	get func(*Params) float64
	set func(*Params, float64)
}

func boolField(ptr func(*Params) *bool) paramField {
	return paramField{
		get: func(p *Params) float64 {
			if *ptr(p) {
				return 1
			}
			return 0
		},
		set: func(p *Params, v float64) { *ptr(p) = v != 0 },
	}
}

func floatField(ptr func(*Params) *float64) paramField {
	return paramField{
		get: func(p *Params) float64 { return *ptr(p) },
		set: func(p *Params, v float64) { *ptr(p) = v },
	}
}

var paramFields = map[string]paramField{
	"separationWeight":         floatField(func(p *Params) *float64 { return &p.SeparationWeight }),
	"velocityMatchWeight":      floatField(func(p *Params) *float64 { return &p.VelocityMatchWeight }),
	"cohesionWeight":           floatField(func(p *Params) *float64 { return &p.CohesionWeight }),
	"initialEscapeAngle":       floatField(func(p *Params) *float64 { return &p.InitialEscapeAngle }),
	"turnRate":                 floatField(func(p *Params) *float64 { return &p.TurnRate }),
	"senseRadius":              floatField(func(p *Params) *float64 { return &p.SenseRadius }),
	"minSeparationDist":        floatField(func(p *Params) *float64 { return &p.MinSeparationDist }),
	"separationForceAtMinDist": floatField(func(p *Params) *float64 { return &p.SeparationForceAtMinDist }),
	"cruiseSpeed":              floatField(func(p *Params) *float64 { return &p.CruiseSpeed }),
	"escapeSteps": {
		get: func(p *Params) float64 { return float64(p.EscapeSteps) },
		set: func(p *Params, v float64) { p.EscapeSteps = int(math.Round(v)) },
	},
	"drawSeparation":    boolField(func(p *Params) *bool { return &p.DrawSeparation }),
	"drawVelocityMatch": boolField(func(p *Params) *bool { return &p.DrawVelocityMatch }),
	"drawCohesion":      boolField(func(p *Params) *bool { return &p.DrawCohesion }),
	"drawAvoidance":     boolField(func(p *Params) *bool { return &p.DrawAvoidance }),
	"drawPhysics":       boolField(func(p *Params) *bool { return &p.DrawPhysics }),
}

// ParamNames lists every tunable name in lexical order.
func ParamNames() []string {
	names := make([]string, 0, len(paramFields))
	for n := range paramFields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get reads a tunable by name. Booleans read as 0 or 1.
func (p *Params) Get(name string) (float64, error) {
	f, ok := paramFields[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return f.get(p), nil
}

// Set writes a tunable by name. Booleans are true for any non-zero value.
// The change is rejected, leaving p untouched, when the result fails Validate.
func (p *Params) Set(name string, v float64) error {
	f, ok := paramFields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	next := *p
	f.set(&next, v)
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}
