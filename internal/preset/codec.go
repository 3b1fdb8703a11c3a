package preset

import (
	"encoding/json"
	"errors"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("variation record version mismatch")

func EncodeVariation(v Variation) ([]byte, error) {
	return json.Marshal(v)
}

func DecodeVariation(data []byte) (Variation, error) {
	var v Variation
	if err := json.Unmarshal(data, &v); err != nil {
		return Variation{}, err
	}
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return Variation{}, ErrVersionMismatch
	}
	return v, nil
}
