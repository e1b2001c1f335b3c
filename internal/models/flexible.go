package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexibleText holds a value that clients send either as a JSON number or as
// a string: installation codes such as 1042 or "PV-7", and power or ordinate
// values. The text is kept verbatim so that locale decimal commas ("21,770")
// reach the normalizer untouched.
type FlexibleText string

func (n *FlexibleText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexibleText(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("flexible text: %w", err)
	}
	*n = FlexibleText(num.String())
	return nil
}
