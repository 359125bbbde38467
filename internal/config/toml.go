package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/v2"
)

// tomlParser implements koanf.Parser for TOML config files.
type tomlParser struct{}

// TOML returns a koanf parser backed by BurntSushi/toml.
func TOML() koanf.Parser {
	return &tomlParser{}
}

// Unmarshal parses TOML bytes into a nested map.
func (p *tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (p *tomlParser) Marshal(o map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
