package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Path is a filesystem location read from the settings file. Besides plain
// strings it accepts two tags:
//
//	statements: !path "../statements"             # resolved to an absolute path
//	output: !env_path ["HOME", "finance", "out"]  # $HOME/finance/out
type Path string

const (
	pathTag    = "!path"
	envPathTag = "!env_path"
)

func (p *Path) UnmarshalYAML(node *yaml.Node) error {
	switch node.Tag {
	case pathTag:
		var raw string
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: %s expects a string: %w", node.Line, pathTag, err)
		}
		if raw == "" {
			*p = ""
			return nil
		}
		abs, err := filepath.Abs(raw)
		if err != nil {
			return fmt.Errorf("line %d: resolving %q: %w", node.Line, raw, err)
		}
		*p = Path(abs)
		return nil

	case envPathTag:
		if node.Kind != yaml.SequenceNode {
			return fmt.Errorf("line %d: %s expects a list [ENV_VAR, part, ...]", node.Line, envPathTag)
		}
		var parts []string
		if err := node.Decode(&parts); err != nil {
			return fmt.Errorf("line %d: %s: %w", node.Line, envPathTag, err)
		}
		if len(parts) == 0 {
			*p = ""
			return nil
		}
		base, ok := os.LookupEnv(parts[0])
		if !ok {
			return fmt.Errorf("line %d: environment variable %q not found", node.Line, parts[0])
		}
		*p = Path(filepath.Join(append([]string{base}, parts[1:]...)...))
		return nil

	default:
		var raw string
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: expected a path string: %w", node.Line, err)
		}
		*p = Path(raw)
		return nil
	}
}

// String returns the path as a string.
func (p Path) String() string {
	return string(p)
}

// Join appends elements to the path.
func (p Path) Join(elem ...string) string {
	return filepath.Join(append([]string{string(p)}, elem...)...)
}
