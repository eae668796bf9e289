package cell

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Infer converts a native Go value into a Value.
//
// Strings always become String values, even when they look like a formula
// or an error literal; use Formula or Error for those. Only time.Time becomes
// a Date, a bare number never does.
func Infer(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Empty(), nil
	case Value:
		return v, nil
	case *Value:
		if v == nil {
			return Empty(), nil
		}
		return *v, nil
	case string:
		return String(v), nil
	case []byte:
		return String(string(v)), nil
	case bool:
		return Bool(v), nil
	case time.Time:
		return Date(v), nil
	case float64:
		return inferFloat(raw, v)
	case int:
		return Number(float64(v)), nil
	}
	return inferReflect(raw, reflect.ValueOf(raw))
}

func inferReflect(raw any, rv reflect.Value) (Value, error) {
	if rv.Type() == timeType {
		return Date(rv.Interface().(time.Time)), nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Empty(), nil
		}
		return inferReflect(raw, rv.Elem())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return inferFloat(raw, rv.Float())
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Complex64, reflect.Complex128:
		return String(fmt.Sprint(rv.Complex())), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return String(string(rv.Bytes())), nil
		}
	}
	return Value{}, NewTypeInferenceError(raw, "unsupported kind "+rv.Kind().String())
}

func inferFloat(raw any, f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, NewTypeInferenceError(raw, "non-finite number")
	}
	return Number(f), nil
}
