package yamlconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML configuration file. ${VAR} references are
// expanded from the environment so secrets can stay out of the file.
// Defaults are not applied here; see domain.Config.Merge.
func LoadConfig(path string) (*domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	b = []byte(os.ExpandEnv(string(b)))

	var c domain.Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(c.Feed.Paths) > 0 {
		paths := make(map[domain.ReleaseChannel]string, len(c.Feed.Paths))
		for name, p := range c.Feed.Paths {
			ch, err := domain.ParseReleaseChannel(string(name))
			if err != nil {
				return nil, fmt.Errorf("config file %s: feed.paths: %w", path, err)
			}
			paths[ch] = p
		}
		c.Feed.Paths = paths
	}
	return &c, nil
}
