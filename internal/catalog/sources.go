package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Source is one browsable catalog scope. Filter narrows which addons the
// scope shows: "all", "installed" or "featured".
type Source struct {
	Name         string `toml:"name"`
	Title        string `toml:"title"`
	Filter       string `toml:"filter"`
	RequiresAuth bool   `toml:"requires_auth"`
}

type sourcesFile struct {
	Source []Source `toml:"source"`
}

const defaultSourcesTOML = `# jaskmods catalog sources

[[source]]
name = "featured"
title = "Featured"
filter = "featured"

[[source]]
name = "installed"
title = "Installed"
filter = "installed"

[[source]]
name = "library"
title = "My Library"
filter = "all"
requires_auth = true
`

// LoadSources reads the sources file, writing the default file first if none
// exists yet.
func LoadSources(path string) ([]Source, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sources dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultSourcesTOML), 0o644); err != nil {
			return nil, fmt.Errorf("write default sources: %w", err)
		}
	}

	var file sourcesFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	if len(file.Source) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}
	for i, s := range file.Source {
		if s.Name == "" {
			return nil, fmt.Errorf("source %d has no name", i)
		}
		switch s.Filter {
		case "", "all", "installed", "featured":
		default:
			return nil, fmt.Errorf("source %q has unknown filter %q", s.Name, s.Filter)
		}
	}
	return file.Source, nil
}

// FindSource returns the source named name, or the first source when name is
// unknown.
func FindSource(sources []Source, name string) Source {
	for _, s := range sources {
		if s.Name == name {
			return s
		}
	}
	return sources[0]
}
