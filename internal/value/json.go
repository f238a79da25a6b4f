package value

import (
	"encoding/json"

	"github.com/pathkv/pathkv/pkg/types"
)

// ToJSON renders v as a json.Marshal-compatible tree: null/bool/float64/
// string/[]any/map[string]any, matching the shape a caller's own
// encoding/json.Marshal would produce for those Go types.
func ToJSON(v types.Value) any {
	switch v.K {
	case types.KindNull:
		return nil
	case types.KindBool:
		return v.B
	case types.KindNumber:
		return v.N
	case types.KindString:
		return v.Str
	case types.KindArray:
		out := make([]any, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = ToJSON(e)
		}
		return out
	case types.KindObject:
		out := make(map[string]any, len(v.Obj))
		for k, e := range v.Obj {
			out[k] = ToJSON(e)
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON renders v as indented JSON text, used by the CLI's get and
// export commands and by the C-ABI's pathkv_get_string.
func MarshalJSON(v types.Value) ([]byte, error) {
	return json.MarshalIndent(ToJSON(v), "", "  ")
}

// FromJSON converts a decoded encoding/json tree (the any produced by
// json.Unmarshal into an `any`) into a types.Value, used by the CLI's set
// command to accept JSON literals on the command line.
func FromJSON(j any) types.Value {
	switch t := j.(type) {
	case nil:
		return types.Null()
	case bool:
		return types.Bool(t)
	case float64:
		return types.Number(t)
	case string:
		return types.String(t)
	case []any:
		elems := make([]types.Value, len(t))
		for i, e := range t {
			elems[i] = FromJSON(e)
		}
		return types.Array(elems...)
	case map[string]any:
		obj := make(map[string]types.Value, len(t))
		for k, e := range t {
			obj[k] = FromJSON(e)
		}
		return types.Object(obj)
	default:
		return types.Null()
	}
}

// ParseJSON parses raw JSON text into a types.Value.
func ParseJSON(raw []byte) (types.Value, error) {
	var j any
	if err := json.Unmarshal(raw, &j); err != nil {
		return types.Value{}, types.ErrDecodingFailed.Wrap(err)
	}
	return FromJSON(j), nil
}
