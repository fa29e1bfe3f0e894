package persistence

import (
	"bytes"
	"encoding/gob"
	"errors"
)

var errEmptyPayload = errors.New("gob: empty payload")

// encodeValue serializes v using encoding/gob.
// Callers must ensure that values are gob-encodable.
func encodeValue[T any](v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeValue is the inverse of encodeValue.
func decodeValue[T any](data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, errEmptyPayload
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}
