package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes doc as YAML with two-space indentation.
func WriteYAML(w io.Writer, doc Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
