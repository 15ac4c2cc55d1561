package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDocument reads a DemoSpec from a YAML document on disk. The result is
// still untrusted input; callers must run it through Plan before use.
func LoadDocument(path string) (DemoSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DemoSpec{}, fmt.Errorf("failed to read spec document: %w", err)
	}

	var demo DemoSpec
	if err := yaml.Unmarshal(data, &demo); err != nil {
		return DemoSpec{}, fmt.Errorf("failed to parse spec document %s: %w", path, err)
	}
	return demo, nil
}
