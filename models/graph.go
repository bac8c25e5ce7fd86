package models

import (
	json "github.com/goccy/go-json"
)

// Graph is a JSON-LD response: a context plus a flat list of typed nodes.
type Graph struct {
	Context json.RawMessage   `json:"@context,omitempty"`
	Nodes   []json.RawMessage `json:"@graph"`
}

// TypeList unmarshals a JSON-LD "@type" value, which may be a single string
// or an array of strings.
type TypeList []string

func (t *TypeList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = TypeList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = TypeList(many)
	return nil
}

func (t TypeList) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// Has reports whether the list contains the given type.
func (t TypeList) Has(typ string) bool {
	for _, v := range t {
		if v == typ {
			return true
		}
	}
	return false
}

// StringList unmarshals a string-or-array JSON-LD value such as "genre" or
// "videoFormat".
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = StringList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

func (s StringList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}
