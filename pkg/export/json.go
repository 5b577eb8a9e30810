package export

import (
	"encoding/json"

	"github.com/autocrate/autocrate/pkg/errors"
)

// RenderJSON serializes the design as indented JSON.
func RenderJSON(d Design) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to serialize design")
	}
	return append(data, '\n'), nil
}
