package json

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// scalar is a node value that unmarshals from a number or from
// an array holding exactly one number, possibly nested.
type scalar float64

func (s scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(s))
}

func (s *scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errors.New("node value is null")
	}
	if len(data) == 0 || data[0] != '[' {
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return errors.Wrap(err, "decoding node value")
		}
		*s = scalar(v)
		return nil
	}
	var values []scalar
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if len(values) != 1 {
		return errors.Errorf("node value has %d outputs, only single-output trees are supported", len(values))
	}
	*s = values[0]
	return nil
}
