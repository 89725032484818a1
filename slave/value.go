package slave

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"reflect"

	"github.com/dermesser/slaverpc/proto"

	pb "github.com/gogo/protobuf/proto"
)

// Conversion between Go values and the wire Value message. Scalars travel as
// typed fields; everything else is gob-encoded ("raw"), which both sides only
// accept when raw values are enabled in the protocol options. Non-scalar
// types crossing the boundary must be registered with gob (gob.Register) by
// the embedding program on both ends.

var errRawNotPermitted = errors.New("raw values are not permitted by the protocol options")

// FromNative encodes a Go value for the wire.
func FromNative(v interface{}, allowRaw bool) (*proto.Value, error) {
	if v == nil {
		return &proto.Value{Kind: proto.Value_NIL.Enum()}, nil
	}

	switch n := v.(type) {
	case bool:
		return &proto.Value{Kind: proto.Value_BOOL.Enum(), BoolValue: pb.Bool(n)}, nil
	case int:
		return &proto.Value{Kind: proto.Value_INT.Enum(), IntValue: pb.Int64(int64(n))}, nil
	case int8:
		return &proto.Value{Kind: proto.Value_INT.Enum(), IntValue: pb.Int64(int64(n))}, nil
	case int16:
		return &proto.Value{Kind: proto.Value_INT.Enum(), IntValue: pb.Int64(int64(n))}, nil
	case int32:
		return &proto.Value{Kind: proto.Value_INT.Enum(), IntValue: pb.Int64(int64(n))}, nil
	case int64:
		return &proto.Value{Kind: proto.Value_INT.Enum(), IntValue: pb.Int64(n)}, nil
	case uint:
		return &proto.Value{Kind: proto.Value_UINT.Enum(), UintValue: pb.Uint64(uint64(n))}, nil
	case uint8:
		return &proto.Value{Kind: proto.Value_UINT.Enum(), UintValue: pb.Uint64(uint64(n))}, nil
	case uint16:
		return &proto.Value{Kind: proto.Value_UINT.Enum(), UintValue: pb.Uint64(uint64(n))}, nil
	case uint32:
		return &proto.Value{Kind: proto.Value_UINT.Enum(), UintValue: pb.Uint64(uint64(n))}, nil
	case uint64:
		return &proto.Value{Kind: proto.Value_UINT.Enum(), UintValue: pb.Uint64(n)}, nil
	case float32:
		return &proto.Value{Kind: proto.Value_FLOAT.Enum(), FloatValue: pb.Float64(float64(n))}, nil
	case float64:
		return &proto.Value{Kind: proto.Value_FLOAT.Enum(), FloatValue: pb.Float64(n)}, nil
	case string:
		return &proto.Value{Kind: proto.Value_STRING.Enum(), StringValue: pb.String(n)}, nil
	case []byte:
		return &proto.Value{Kind: proto.Value_BYTES.Enum(), BytesValue: n}, nil
	}

	if !allowRaw {
		return nil, errRawNotPermitted
	}

	buf := new(bytes.Buffer)

	if err := gob.NewEncoder(buf).Encode(&v); err != nil {
		return nil, err
	}
	return &proto.Value{Kind: proto.Value_RAW.Enum(), RawValue: buf.Bytes()}, nil
}

// ToNative decodes a wire value into a Go value.
func ToNative(val *proto.Value, allowRaw bool) (interface{}, error) {
	switch val.GetKind() {
	case proto.Value_NIL:
		return nil, nil
	case proto.Value_BOOL:
		return val.GetBoolValue(), nil
	case proto.Value_INT:
		return val.GetIntValue(), nil
	case proto.Value_UINT:
		return val.GetUintValue(), nil
	case proto.Value_FLOAT:
		return val.GetFloatValue(), nil
	case proto.Value_STRING:
		return val.GetStringValue(), nil
	case proto.Value_BYTES:
		return val.GetBytesValue(), nil
	case proto.Value_RAW:
		if !allowRaw {
			return nil, errRawNotPermitted
		}

		var out interface{}

		if err := gob.NewDecoder(bytes.NewReader(val.GetRawValue())).Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown value kind %v", val.GetKind())
}

var numericKinds = map[reflect.Kind]bool{
	reflect.Int: true, reflect.Int8: true, reflect.Int16: true, reflect.Int32: true, reflect.Int64: true,
	reflect.Uint: true, reflect.Uint8: true, reflect.Uint16: true, reflect.Uint32: true, reflect.Uint64: true,
	reflect.Float32: true, reflect.Float64: true,
}

// asArgument adapts a decoded native value to the type a method parameter or
// field expects. Numbers are converted freely (typed scalars always arrive as
// int64/uint64/float64); anything else has to be assignable.
func asArgument(native interface{}, want reflect.Type) (reflect.Value, error) {
	if native == nil {
		return reflect.Zero(want), nil
	}

	have := reflect.ValueOf(native)

	if have.Type().AssignableTo(want) {
		return have, nil
	}
	if numericKinds[have.Kind()] && numericKinds[want.Kind()] {
		return have.Convert(want), nil
	}

	return reflect.Value{}, fmt.Errorf("argument type mismatch: have %s, want %s", have.Type(), want)
}
