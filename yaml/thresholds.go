// Package yaml loads heuristic thresholds from YAML files.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/ezweb"
	"gopkg.in/yaml.v3"
)

// LoadThresholds reads thresholds from r, overlaying ezweb.DefaultThresholds.
// Unknown keys are rejected so that typos do not silently keep a default.
// An empty document yields the defaults.
func LoadThresholds(r io.Reader) (ezweb.Thresholds, error) {
	th := ezweb.DefaultThresholds()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&th); err != nil && !errors.Is(err, io.EOF) {
		return ezweb.Thresholds{}, ezweb.Errorf(ezweb.EINVALID, "invalid thresholds: %v", err)
	}

	if err := th.Validate(); err != nil {
		return ezweb.Thresholds{}, err
	}
	return th, nil
}

// LoadThresholdsFile reads thresholds from the file at path.
func LoadThresholdsFile(path string) (ezweb.Thresholds, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return ezweb.Thresholds{}, ezweb.Errorf(ezweb.ENOTFOUND, "thresholds file %s not found", path)
	}
	if err != nil {
		return ezweb.Thresholds{}, err
	}
	defer f.Close()
	return LoadThresholds(f)
}
