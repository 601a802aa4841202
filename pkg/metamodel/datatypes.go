package metamodel

import (
	"fmt"
	"strconv"
	"time"
)

// DataType describes the value domain of an attribute.
// Values are held as native Go values and converted
// to and from their textual form for serialization.
type DataType interface {
	Name() string
	// Default is the value of an unset attribute.
	Default() any
	// Accepts checks whether a Go value belongs to the
	// value domain.
	Accepts(v any) bool
	Format(v any) (string, error)
	Parse(s string) (any, error)
}

type primitive[T any] struct {
	name   string
	format func(T) string
	parse  func(string) (T, error)
}

var _ DataType = (*primitive[string])(nil)

func newPrimitive[T any](name string, format func(T) string, parse func(string) (T, error)) DataType {
	return &primitive[T]{name: name, format: format, parse: parse}
}

func (p *primitive[T]) Name() string {
	return p.name
}

func (p *primitive[T]) Default() any {
	var zero T
	return zero
}

func (p *primitive[T]) Accepts(v any) bool {
	_, ok := v.(T)
	return ok
}

func (p *primitive[T]) Format(v any) (string, error) {
	t, ok := v.(T)
	if !ok {
		return "", fmt.Errorf("value %v (%T) is no %s", v, v, p.name)
	}
	return p.format(t), nil
}

func (p *primitive[T]) Parse(s string) (any, error) {
	v, err := p.parse(s)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (p *primitive[T]) String() string {
	return p.name
}

var (
	EString = newPrimitive[string]("EString",
		func(s string) string { return s },
		func(s string) (string, error) { return s, nil },
	)
	EInt = newPrimitive[int]("EInt",
		strconv.Itoa,
		strconv.Atoi,
	)
	ELong = newPrimitive[int64]("ELong",
		func(v int64) string { return strconv.FormatInt(v, 10) },
		func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
	)
	EFloat = newPrimitive[float32]("EFloat",
		func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) },
		func(s string) (float32, error) {
			v, err := strconv.ParseFloat(s, 32)
			return float32(v), err
		},
	)
	EDouble = newPrimitive[float64]("EDouble",
		func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
		func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
	)
	EBoolean = newPrimitive[bool]("EBoolean",
		strconv.FormatBool,
		strconv.ParseBool,
	)
	EDate = newPrimitive[time.Time]("EDate",
		func(t time.Time) string { return t.Format(time.RFC3339Nano) },
		func(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) },
	)
)

// PrimitiveTypes lists the data types known to every registry.
func PrimitiveTypes() []DataType {
	return []DataType{EString, EInt, ELong, EFloat, EDouble, EBoolean, EDate}
}

var aliases = map[string]string{
	"String":  "EString",
	"Int":     "EInt",
	"Integer": "EInt",
	"Long":    "ELong",
	"Float":   "EFloat",
	"Double":  "EDouble",
	"Boolean": "EBoolean",
	"Bool":    "EBoolean",
	"Date":    "EDate",
}
