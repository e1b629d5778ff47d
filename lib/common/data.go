package common

import "encoding/json"

type Serializable interface {
	Serialize() ([]byte, error)
}

func EncodeJSONValue(v interface{}) (b []byte, err error) {
	return json.Marshal(v)
}

func DecodeJSONValue(b []byte, v interface{}) (err error) {
	return json.Unmarshal(b, v)
}

func MustJSONMarshal(o interface{}) []byte {
	b, _ := json.Marshal(o)
	return b
}
