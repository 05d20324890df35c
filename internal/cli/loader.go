package cli

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDocument reads the YAML or JSON document at path. an empty file loads
// as nil
func LoadDocument(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "reading "+path, err)
	}

	var doc interface{}
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, WrapExitError(ExitCommandError, "parsing "+path, err)
	}
	return doc, nil
}
