// Package value implements the binary codec for pathkv's in-memory Value
// tree (types.Value): a compact, self-describing per-leaf encoding that
// follows the MessagePack wire grammar (single-byte nil/bool, fixint and
// fixed-width integer formats, float32/float64, fixstr/str8/16/32,
// fixarray/array16/32, fixmap/map16/32 with string-only keys).
//
// The codec is built on top of github.com/vmihailenco/msgpack/v5's
// low-level Encoder/Decoder primitives (EncodeFloat64, DecodeArrayLen,
// PeekCode, ...) rather than its struct-tag Marshal/Unmarshal path, so that
// decode failures can be classified into pathkv's own error taxonomy
// (DecodingFailed/UnexpectedEnd/InvalidMapKey) instead of leaking the
// library's generic error strings.
package value

import (
	"bytes"
	"errors"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/pathkv/pathkv/pkg/types"
)

// Encode serializes v to its binary-codec form. Writers always emit
// float64 for numbers, never a narrower integer format.
func Encode(v types.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeValue(enc, v); err != nil {
		return nil, types.ErrEncodingFailed.Wrap(err)
	}
	return buf.Bytes(), nil
}

func encodeValue(enc *msgpack.Encoder, v types.Value) error {
	switch v.K {
	case types.KindNull:
		return enc.EncodeNil()
	case types.KindBool:
		return enc.EncodeBool(v.B)
	case types.KindNumber:
		return enc.EncodeFloat64(v.N)
	case types.KindString:
		return enc.EncodeString(v.Str)
	case types.KindArray:
		if err := enc.EncodeArrayLen(len(v.Arr)); err != nil {
			return err
		}
		for _, e := range v.Arr {
			if err := encodeValue(enc, e); err != nil {
				return err
			}
		}
		return nil
	case types.KindObject:
		if err := enc.EncodeMapLen(len(v.Obj)); err != nil {
			return err
		}
		for k, e := range v.Obj {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := encodeValue(enc, e); err != nil {
				return err
			}
		}
		return nil
	default:
		return types.ErrEncodingFailed.Wrapf(nil, "unknown value kind %d", v.K)
	}
}

// Decode parses a single binary-codec value from b. Any trailing bytes
// beyond the first encoded value are ignored: each leaf is a single
// self-describing byte sequence.
func Decode(b []byte) (types.Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	v, err := decodeValue(dec)
	if err != nil {
		return types.Value{}, classifyDecodeErr(err)
	}
	return v, nil
}

func decodeValue(dec *msgpack.Decoder) (types.Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return types.Value{}, err
	}

	switch {
	case code == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return types.Value{}, err
		}
		return types.Null(), nil

	case code == msgpcode.True || code == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(b), nil

	case msgpcode.IsFixedNum(code),
		code == msgpcode.Int8, code == msgpcode.Int16, code == msgpcode.Int32, code == msgpcode.Int64,
		code == msgpcode.Uint8, code == msgpcode.Uint16, code == msgpcode.Uint32, code == msgpcode.Uint64,
		code == msgpcode.Float, code == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return types.Value{}, err
		}
		return types.Number(f), nil

	case msgpcode.IsFixedString(code),
		code == msgpcode.Str8, code == msgpcode.Str16, code == msgpcode.Str32:
		s, err := dec.DecodeString()
		if err != nil {
			return types.Value{}, err
		}
		return types.String(s), nil

	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return types.Value{}, err
		}
		elems := make([]types.Value, n)
		for i := 0; i < n; i++ {
			elems[i], err = decodeValue(dec)
			if err != nil {
				return types.Value{}, err
			}
		}
		return types.Array(elems...), nil

	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return types.Value{}, err
		}
		obj := make(map[string]types.Value, n)
		for i := 0; i < n; i++ {
			keyCode, err := dec.PeekCode()
			if err != nil {
				return types.Value{}, err
			}
			if !msgpcode.IsString(keyCode) {
				return types.Value{}, errInvalidMapKey
			}
			k, err := dec.DecodeString()
			if err != nil {
				return types.Value{}, err
			}
			v, err := decodeValue(dec)
			if err != nil {
				return types.Value{}, err
			}
			obj[k] = v
		}
		return types.Object(obj), nil

	default:
		return types.Value{}, errUnsupportedFormat
	}
}

var (
	errInvalidMapKey     = errors.New("codec: map key is not a string")
	errUnsupportedFormat = errors.New("codec: unrecognized leading format byte")
)

func classifyDecodeErr(err error) error {
	switch {
	case errors.Is(err, errInvalidMapKey):
		return types.ErrDecodingFailed.Wrapf(err, "invalid map key")
	case errors.Is(err, errUnsupportedFormat):
		return types.ErrDecodingFailed.Wrapf(err, "unsupported format")
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return types.ErrDecodingFailed.Wrapf(err, "unexpected end of input")
	default:
		return types.ErrDecodingFailed.Wrap(err)
	}
}
