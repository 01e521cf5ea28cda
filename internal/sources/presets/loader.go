package presets

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Loader reads presets.yaml.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the presets file. Presets with a name that cannot be
// used in a URL path are skipped; a file without any usable preset is an
// error.
func (l *Loader) Load() (map[string]Preset, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return Parse(data)
}

// Parse decodes presets from YAML.
func Parse(data []byte) (map[string]Preset, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets yaml: %w", err)
	}

	presets := make(map[string]Preset, len(file.Presets))
	for name, p := range file.Presets {
		if !validName.MatchString(name) {
			continue
		}
		presets[name] = p
	}

	if len(presets) == 0 {
		return nil, fmt.Errorf("no valid presets found in config")
	}
	return presets, nil
}
