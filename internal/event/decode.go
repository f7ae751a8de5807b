package event

import "encoding/json"

// DecodePayload returns the payload as T. Payloads published in-process are
// already T; payloads read back from the dead-letter file are generic maps and
// go through a JSON round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	var out T
	if v, ok := input.(T); ok {
		return v, nil
	}
	raw, err := json.Marshal(input)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}
