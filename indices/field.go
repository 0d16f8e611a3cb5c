package indices

import (
	"encoding/binary"
	"math"
	"reflect"
	"time"
	"unsafe"

	"github.com/pkg/errors"
)

// NewFieldIndex defines new field index.
func NewFieldIndex(name string, ePtr, fieldPtr any) (*FieldIndex, error) {
	ePtrType := reflect.TypeOf(ePtr)
	if ePtrType == nil || ePtrType.Kind() != reflect.Ptr {
		return nil, errors.New("ePtr is not a pointer")
	}
	if ePtrType.Elem().Kind() != reflect.Struct {
		return nil, errors.New("*ePtr is not a struct")
	}

	fieldPtrType := reflect.TypeOf(fieldPtr)
	if fieldPtrType == nil || fieldPtrType.Kind() != reflect.Ptr {
		return nil, errors.New("fieldPtr is not a pointer")
	}
	if fieldPtrType.Elem().Kind() == reflect.Ptr {
		return nil, errors.New("field is a pointer")
	}

	eStart := reflect.ValueOf(ePtr).Pointer()
	eSize := ePtrType.Elem().Size()
	fieldStart := reflect.ValueOf(fieldPtr).Pointer()
	if fieldStart < eStart || fieldStart >= eStart+eSize {
		return nil, errors.Errorf("field does not belong to entity")
	}

	offset := fieldStart - eStart
	fieldType := findField(ePtrType.Elem(), offset)
	if fieldType != fieldPtrType.Elem() {
		return nil, errors.Errorf("unexpected field type %s, expected %s", fieldType, fieldPtrType.Elem())
	}
	encode, err := encoderForType(fieldType)
	if err != nil {
		return nil, err
	}

	return &FieldIndex{
		name:       name,
		entityType: ePtrType.Elem(),
		indexer: fieldIndexer{
			offset:    offset,
			fieldType: fieldType,
			encode:    encode,
		},
	}, nil
}

// FieldIndex defines index indexing entities by struct field.
type FieldIndex struct {
	name       string
	entityType reflect.Type
	indexer    fieldIndexer
}

// Name returns name of the index.
func (i *FieldIndex) Name() string {
	return i.name
}

// Type returns type of entity index is defined for.
func (i *FieldIndex) Type() reflect.Type {
	return i.entityType
}

// NumOfArgs returns number of arguments taken by the index.
func (i *FieldIndex) NumOfArgs() uint64 {
	return 1
}

// Indexer returns indexer computing keys.
func (i *FieldIndex) Indexer() Indexer {
	return i.indexer
}

func findField(t reflect.Type, offset uintptr) reflect.Type {
	var field reflect.StructField
	for {
		for i := range t.NumField() {
			f := t.Field(i)
			if f.Offset > offset {
				break
			}
			field = f
		}

		if field.Type.Kind() != reflect.Struct || field.Type.ConvertibleTo(timeType) {
			return field.Type
		}
		offset -= field.Offset
		t = field.Type
	}
}

type fieldIndexer struct {
	offset    uintptr
	fieldType reflect.Type
	encode    func(v reflect.Value) []byte
}

func (i fieldIndexer) FromArgs(args ...any) ([]byte, error) {
	if len(args) != 1 {
		return nil, errors.Errorf("expected 1 argument, got %d", len(args))
	}
	return encodeArg(args[0], i.fieldType, i.encode)
}

func (i fieldIndexer) FromObject(o reflect.Value) ([]byte, bool) {
	k := i.encode(reflect.NewAt(i.fieldType, unsafe.Add(o.UnsafePointer(), i.offset)).Elem())
	return k, k != nil
}

// encodeArg converts lookup argument to type t and encodes it.
func encodeArg(arg any, t reflect.Type, encode func(v reflect.Value) []byte) ([]byte, error) {
	v, err := convertArg(arg, t)
	if err != nil {
		return nil, err
	}
	k := encode(v)
	if k == nil {
		return nil, errors.Errorf("value of type %s cannot be indexed", v.Type())
	}
	return k, nil
}

var timeType = reflect.TypeOf(time.Time{})

// encoderForType returns function encoding values of type t. Encoders of concrete types never return nil.
// Encoder of interface type returns nil for dynamic values which cannot be indexed.
func encoderForType(t reflect.Type) (func(v reflect.Value) []byte, error) {
	if t.Kind() == reflect.Interface {
		return encodeDynamic, nil
	}
	if t.ConvertibleTo(timeType) {
		return func(v reflect.Value) []byte {
			return timeToBytes(v.Convert(timeType).Interface().(time.Time))
		}, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return func(v reflect.Value) []byte {
			return boolToBytes(v.Bool())
		}, nil
	case reflect.String:
		return func(v reflect.Value) []byte {
			return stringToBytes(v.String())
		}, nil
	case reflect.Int8:
		return func(v reflect.Value) []byte {
			return []byte{uint8(v.Int()) ^ 0x80}
		}, nil
	case reflect.Int16:
		return func(v reflect.Value) []byte {
			return binary.BigEndian.AppendUint16(nil, uint16(v.Int())^0x8000)
		}, nil
	case reflect.Int32:
		return func(v reflect.Value) []byte {
			return binary.BigEndian.AppendUint32(nil, uint32(v.Int())^0x80000000)
		}, nil
	case reflect.Int64, reflect.Int:
		return func(v reflect.Value) []byte {
			return int64ToBytes(v.Int())
		}, nil
	case reflect.Uint8:
		return func(v reflect.Value) []byte {
			return []byte{uint8(v.Uint())}
		}, nil
	case reflect.Uint16:
		return func(v reflect.Value) []byte {
			return binary.BigEndian.AppendUint16(nil, uint16(v.Uint()))
		}, nil
	case reflect.Uint32:
		return func(v reflect.Value) []byte {
			return binary.BigEndian.AppendUint32(nil, uint32(v.Uint()))
		}, nil
	case reflect.Uint64, reflect.Uint:
		return func(v reflect.Value) []byte {
			return binary.BigEndian.AppendUint64(nil, v.Uint())
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(v reflect.Value) []byte {
			return float64ToBytes(v.Float())
		}, nil
	default:
		return nil, errors.Errorf("unsupported type: %s", t)
	}
}

func convertArg(arg any, t reflect.Type) (reflect.Value, error) {
	v := reflect.ValueOf(arg)
	if t.Kind() == reflect.Interface {
		if v.IsValid() && !v.Type().Implements(t) {
			return reflect.Value{}, errors.Errorf("value of type %s does not implement %s", v.Type(), t)
		}
		return v, nil
	}
	if !v.IsValid() {
		return reflect.Value{}, errors.Errorf("nil value cannot be used as %s", t)
	}
	if v.Type() == t {
		return v, nil
	}

	vClass, tClass := kindClass(v.Kind()), kindClass(t.Kind())
	switch {
	case (vClass == classInt || vClass == classUint) && tClass == classFloat:
		if err := checkFloatRange(v, t); err != nil {
			return reflect.Value{}, err
		}
		return v.Convert(t), nil
	case vClass == classInt || vClass == classUint:
		if tClass != classInt && tClass != classUint {
			break
		}
		if err := checkIntRange(v, t); err != nil {
			return reflect.Value{}, err
		}
		return v.Convert(t), nil
	case vClass == classOther:
		if v.Type().ConvertibleTo(timeType) && t.ConvertibleTo(timeType) {
			return v.Convert(timeType).Convert(t), nil
		}
	case vClass == tClass && v.CanConvert(t):
		return v.Convert(t), nil
	}
	return reflect.Value{}, errors.Errorf("value of type %s cannot be used as %s", v.Type(), t)
}

func checkIntRange(v reflect.Value, t reflect.Type) error {
	zero := reflect.Zero(t)
	if kindClass(v.Kind()) == classInt {
		x := v.Int()
		if kindClass(t.Kind()) == classInt {
			if zero.OverflowInt(x) {
				return errors.Errorf("value %d overflows %s", x, t)
			}
			return nil
		}
		if x < 0 || zero.OverflowUint(uint64(x)) {
			return errors.Errorf("value %d overflows %s", x, t)
		}
		return nil
	}

	x := v.Uint()
	if kindClass(t.Kind()) == classUint {
		if zero.OverflowUint(x) {
			return errors.Errorf("value %d overflows %s", x, t)
		}
		return nil
	}
	if x > math.MaxInt64 || zero.OverflowInt(int64(x)) {
		return errors.Errorf("value %d overflows %s", x, t)
	}
	return nil
}

// maxExactFloat64 is the largest magnitude up to which every integer is representable by float64.
const maxExactFloat64 = 1 << 53

func checkFloatRange(v reflect.Value, t reflect.Type) error {
	var f float64
	if kindClass(v.Kind()) == classInt {
		x := v.Int()
		if x > maxExactFloat64 || x < -maxExactFloat64 {
			return errors.Errorf("value %d cannot be represented exactly by %s", x, t)
		}
		f = float64(x)
	} else {
		x := v.Uint()
		if x > maxExactFloat64 {
			return errors.Errorf("value %d cannot be represented exactly by %s", x, t)
		}
		f = float64(x)
	}
	if t.Kind() == reflect.Float32 && float64(float32(f)) != f {
		return errors.Errorf("value %v cannot be represented exactly by %s", f, t)
	}
	return nil
}

type class int

const (
	classOther class = iota
	classBool
	classString
	classInt
	classUint
	classFloat
)

func kindClass(k reflect.Kind) class {
	switch k {
	case reflect.Bool:
		return classBool
	case reflect.String:
		return classString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return classInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classUint
	case reflect.Float32, reflect.Float64:
		return classFloat
	default:
		return classOther
	}
}

func boolToBytes(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func stringToBytes(s string) []byte {
	b := make([]byte, len(s)+1) // +1 for null termination
	copy(b, s)
	return b
}

var secondsOffset = time.Time{}.Unix()

func timeToBytes(t time.Time) []byte {
	var b [12]byte
	binary.BigEndian.PutUint64(b[:], uint64(t.Unix()-secondsOffset))
	binary.BigEndian.PutUint32(b[8:], uint32(t.Nanosecond()))
	b[0] ^= 0x80
	return b[:]
}

func int64ToBytes(i int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(i)^0x8000000000000000)
	return b[:]
}

func float64ToBytes(f float64) []byte {
	// -0 and +0 must land in the same bucket.
	if f == 0 {
		f = 0
	}
	return binary.BigEndian.AppendUint64(nil, math.Float64bits(f))
}
