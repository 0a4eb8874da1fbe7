package filters

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAMLFilter marshals value as YAML, the config-file format's
// companion filter to |json: one serialization filter per wire format
// the rest of the stack speaks. The common `|json` -> |safe pairing
// applies here too: ToYAMLFilter returns a SafeValue so a YAML block
// embedded inside a `{% filter safe %}` body is not re-escaped.
func ToYAMLFilter(value interface{}, args ...interface{}) (interface{}, error) {
	out, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("to_yaml: %w", err)
	}
	return SafeValue{Value: string(out)}, nil
}
