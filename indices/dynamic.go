package indices

import (
	"encoding/binary"
	"math"
	"reflect"
	"time"
)

// Tags prefixing keys of interface-typed values, so values of different kinds never share a bucket.
const (
	tagNil byte = iota
	tagBool
	tagString
	tagInt
	tagUint
	tagFloat
	tagTime
	tagRef
)

// encodeDynamic encodes value stored in interface. Numbers equal in value share the key regardless
// of their type. Pointers, maps and channels are keyed by identity. Nil is returned for values which
// cannot be indexed.
func encodeDynamic(v reflect.Value) []byte {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return []byte{tagNil}
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return []byte{tagNil}
	}
	if v.Type().ConvertibleTo(timeType) {
		return append([]byte{tagTime}, timeToBytes(v.Convert(timeType).Interface().(time.Time))...)
	}

	switch kindClass(v.Kind()) {
	case classBool:
		return append([]byte{tagBool}, boolToBytes(v.Bool())...)
	case classString:
		return append([]byte{tagString}, stringToBytes(v.String())...)
	case classInt:
		return append([]byte{tagInt}, int64ToBytes(v.Int())...)
	case classUint:
		x := v.Uint()
		if x <= math.MaxInt64 {
			return append([]byte{tagInt}, int64ToBytes(int64(x))...)
		}
		return binary.BigEndian.AppendUint64([]byte{tagUint}, x)
	case classFloat:
		f := v.Float()
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return append([]byte{tagInt}, int64ToBytes(int64(f))...)
		}
		return append([]byte{tagFloat}, float64ToBytes(f)...)
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return []byte{tagNil}
		}
		return binary.BigEndian.AppendUint64([]byte{tagRef}, uint64(v.Pointer()))
	default:
		return nil
	}
}
