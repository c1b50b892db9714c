package source

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Cast widens a type-erased cell value to the requested column type T,
// covering the small set of primitive kinds a Dataset cell commonly
// carries (int64, float64, string, bool) via github.com/spf13/cast, so a
// reader declared as one Go type still works against a dataset column
// stored as another (e.g. Read[float64] over an int64-backed column).
// Anything already assignable to T short-circuits without conversion;
// anything else is an error naming both the source value and T.
func Cast[T any](v any) (T, error) {
	var zero T
	if t, ok := v.(T); ok {
		return t, nil
	}
	switch any(zero).(type) {
	case int64:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return zero, errors.Wrapf(err, "casting %v to int64", v)
		}
		return any(n).(T), nil
	case float64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return zero, errors.Wrapf(err, "casting %v to float64", v)
		}
		return any(f).(T), nil
	case string:
		s, err := cast.ToStringE(v)
		if err != nil {
			return zero, errors.Wrapf(err, "casting %v to string", v)
		}
		return any(s).(T), nil
	case bool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return zero, errors.Wrapf(err, "casting %v to bool", v)
		}
		return any(b).(T), nil
	default:
		return zero, errors.Errorf("cannot cast %v (%T) to requested column type", v, zero)
	}
}
