package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathkv/pathkv/pkg/types"
)

func roundTrip(t *testing.T, v types.Value) types.Value {
	t.Helper()
	b, err := Encode(v)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)
	return got
}

func TestCodecPrimitiveRoundTrip(t *testing.T) {
	cases := []types.Value{
		types.Null(),
		types.Bool(true),
		types.Bool(false),
		types.Number(0),
		types.Number(-42),
		types.Number(9007199254740992), // 2^53
		types.String(""),
		types.String("hello, world"),
	}
	for _, v := range cases {
		got := roundTrip(t, v)
		assert.True(t, types.Equal(v, got), "want %+v got %+v", v, got)
	}
}

func TestCodecCompoundRoundTrip(t *testing.T) {
	v := types.Array(
		types.Number(10),
		types.Number(20),
		types.Object(map[string]types.Value{"k": types.String("v")}),
	)
	got := roundTrip(t, v)
	assert.True(t, types.Equal(v, got))
}

func TestCodecUnexpectedEnd(t *testing.T) {
	b, err := Encode(types.String("truncate me"))
	require.NoError(t, err)
	_, err = Decode(b[:1])
	require.Error(t, err)
}

func TestCodecInvalidMapKey(t *testing.T) {
	// Hand-craft a fixmap with one non-string key (a fixint 1).
	raw := []byte{0x81, 0x01, 0xc0} // map of len 1: key=1 (fixint), value=nil
	_, err := Decode(raw)
	require.Error(t, err)
}

func TestCodecUnsupportedFormat(t *testing.T) {
	// 0xc1 is permanently unused in the MessagePack spec.
	_, err := Decode([]byte{0xc1})
	require.Error(t, err)
}
