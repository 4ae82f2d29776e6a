package http

import "encoding/json"

// JsonCodec is the serialization capability handlers and the decoder rely on.
// The engine never looks inside encoded values beyond their length.
type JsonCodec interface {
	Serialize(v interface{}) ([]byte, error)
	Deserialize(data []byte, v interface{}) error
}

type StdJsonCodec struct{}

func (StdJsonCodec) Serialize(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return data, nil
}

func (StdJsonCodec) Deserialize(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
