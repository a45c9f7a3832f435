package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	specs "rating-engine/specs"
)

// RateFile is the on-disk rate table:
//
//	defaultRate: 1.5
//	rates:
//	  Foo: 2.0
//	  NetworkOffering: 0.15
//
// Scalars are kept as written so "2.0" stays "2.0" and values that are not
// numbers reach the rate table, which sends them to the default rate.
type RateFile struct {
	DefaultRate string
	Rates       specs.RateTableSpec
}

type rateFileDocument struct {
	DefaultRate yaml.Node `yaml:"defaultRate"`
	Rates       yaml.Node `yaml:"rates"`
}

func LoadRateFile(path string) (RateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RateFile{}, fmt.Errorf("read rate file: %w", err)
	}
	return ParseRateFile(data)
}

func ParseRateFile(data []byte) (RateFile, error) {
	var doc rateFileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RateFile{}, fmt.Errorf("parse rate file: %w", err)
	}

	file := RateFile{Rates: specs.RateTableSpec{}}

	switch doc.DefaultRate.Kind {
	case 0:
	case yaml.ScalarNode:
		file.DefaultRate = doc.DefaultRate.Value
	default:
		return RateFile{}, fmt.Errorf("parse rate file: defaultRate must be a scalar (line %d)", doc.DefaultRate.Line)
	}

	switch doc.Rates.Kind {
	case 0:
	case yaml.MappingNode:
		content := doc.Rates.Content
		for i := 0; i+1 < len(content); i += 2 {
			key, value := content[i], content[i+1]
			if value.Kind != yaml.ScalarNode {
				return RateFile{}, fmt.Errorf("parse rate file: rate for %q must be a scalar (line %d)", key.Value, value.Line)
			}
			file.Rates[key.Value] = value.Value
		}
	default:
		return RateFile{}, fmt.Errorf("parse rate file: rates must be a mapping (line %d)", doc.Rates.Line)
	}

	return file, nil
}
