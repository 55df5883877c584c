package domain

import (
	"database/sql/driver"
	"encoding/json"
)

// Images holds the remote artwork URLs of a song or album. It is persisted
// as a serialized JSON text column.
type Images struct {
	Small     string `json:"small,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Large     string `json:"large,omitempty"`
	Back      string `json:"back,omitempty"`
}

func (i Images) IsZero() bool {
	return i == Images{}
}

func (i Images) Value() (driver.Value, error) {
	if i.IsZero() {
		return "", nil
	}
	return json.Marshal(i)
}

func (i *Images) Scan(value interface{}) error {
	data, ok := scanBytes(value)
	if !ok || len(data) == 0 || string(data) == "null" {
		*i = Images{}
		return nil
	}
	return json.Unmarshal(data, i)
}

// AudioQuality describes the technical quality of a track. Persisted as a
// serialized JSON text column.
type AudioQuality struct {
	MaximumBitDepth     int     `json:"maximumBitDepth,omitempty"`
	MaximumSamplingRate float64 `json:"maximumSamplingRate,omitempty"`
	IsHiRes             bool    `json:"isHiRes,omitempty"`
}

func (q AudioQuality) IsZero() bool {
	return q == AudioQuality{}
}

func (q AudioQuality) Value() (driver.Value, error) {
	if q.IsZero() {
		return "", nil
	}
	return json.Marshal(q)
}

func (q *AudioQuality) Scan(value interface{}) error {
	data, ok := scanBytes(value)
	if !ok || len(data) == 0 || string(data) == "null" {
		*q = AudioQuality{}
		return nil
	}
	return json.Unmarshal(data, q)
}

func scanBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
