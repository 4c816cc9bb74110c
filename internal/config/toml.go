package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/v2"
)

type tomlParser struct{}

// TOML returns a koanf parser for TOML documents.
func TOML() koanf.Parser {
	return &tomlParser{}
}

func (p *tomlParser) Unmarshal(b []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (p *tomlParser) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
