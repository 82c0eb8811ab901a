package config

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml"
)

// TOML implements koanf.Parser on top of go-toml.
type TOML struct{}

// TOMLParser returns a TOML parser.
func TOMLParser() *TOML {
	return &TOML{}
}

// Unmarshal parses TOML bytes into a nested map.
func (p *TOML) Unmarshal(b []byte) (map[string]interface{}, error) {
	tree, err := toml.LoadBytes(b)
	if err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	return tree.ToMap(), nil
}

// Marshal renders a nested map as TOML.
func (p *TOML) Marshal(o map[string]interface{}) ([]byte, error) {
	tree, err := toml.TreeFromMap(o)
	if err != nil {
		return nil, fmt.Errorf("build toml: %w", err)
	}
	return tree.Marshal()
}

// JSON implements koanf.Parser on top of json-iterator.
type JSON struct{}

// JSONParser returns a JSON parser.
func JSONParser() *JSON {
	return &JSON{}
}

// Unmarshal parses JSON bytes into a nested map.
func (p *JSON) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return out, nil
}

// Marshal renders a nested map as JSON.
func (p *JSON) Marshal(o map[string]interface{}) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(o)
}
