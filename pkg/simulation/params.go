package simulation

import (
	"errors"
	"fmt"
	"slices"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/behavior"
)

// ApplyParams sets every field of update as a named tunable. Numbers and
// booleans are accepted. Valid fields are applied even when others fail;
// the returned error joins every failure.
func (s *Simulation) ApplyParams(update *structpb.Struct) error {
	fields := update.GetFields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		var v float64
		switch k := fields[name].GetKind().(type) {
		case *structpb.Value_NumberValue:
			v = k.NumberValue
		case *structpb.Value_BoolValue:
			if k.BoolValue {
				v = 1
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %s must be a number or a boolean", behavior.ErrInvalidParam, name))
			continue
		}
		if err := s.params.Set(name, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ParamsStruct encodes the current tunables, the inverse of ApplyParams.
func (s *Simulation) ParamsStruct() (*structpb.Struct, error) {
	m := make(map[string]any)
	for _, name := range behavior.ParamNames() {
		v, err := s.params.Get(name)
		if err != nil {
			return nil, err
		}
		m[name] = v
	}
	return structpb.NewStruct(m)
}
