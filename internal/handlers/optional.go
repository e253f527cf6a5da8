package handlers

import "encoding/json"

// Optional distinguishes an absent JSON field from an explicit null, so
// partial updates can clear nullable columns.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true

	if string(b) == "null" {
		o.Value = nil
		return nil
	}

	var v T

	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	o.Value = &v
	return nil
}
