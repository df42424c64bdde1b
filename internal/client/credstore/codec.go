package credstore

import (
	"encoding/json"
	"fmt"
)

// encode stores strings and byte slices as-is so tokens stay readable by
// anything else that shares the store. Everything else is JSON.
func encode(v any) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return []byte(t), nil
	case []byte:
		return append([]byte{}, t...), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %T: %w", v, err)
		}
		return b, nil
	}
}

func decode(raw []byte, dst any) error {
	switch t := dst.(type) {
	case *string:
		*t = string(raw)
		return nil
	case *[]byte:
		*t = append([]byte{}, raw...)
		return nil
	default:
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("decode into %T: %w", dst, err)
		}
		return nil
	}
}
