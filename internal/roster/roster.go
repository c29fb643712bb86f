// Package roster loads and validates the list of participants to be placed
// into groups.
package roster

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/groupspin/internal/errors"
)

// Roster is an ordered list of unique participant names.
type Roster []string

// document is the mapping form of a roster file.
type document struct {
	Participants []string `yaml:"participants"`
}

// Load reads a roster file. Three layouts are accepted:
//
//   - a YAML sequence of names
//   - a YAML mapping with a "participants" sequence
//   - plain text, one name per line, with '#' comments
//
// The result is validated with Validate.
func Load(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("roster file", path).WithCause(err)
		}
		return nil, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes roster data in any of the layouts Load accepts.
func Parse(data []byte) (Roster, error) {
	names, err := decode(data)
	if err != nil {
		return nil, err
	}
	r := Normalize(names)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func decode(data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err == nil && len(node.Content) > 0 {
		switch root := node.Content[0]; root.Kind {
		case yaml.SequenceNode:
			var names []string
			if err := root.Decode(&names); err != nil {
				return nil, errors.NewValidationError("roster entries must be strings").WithCause(err)
			}
			return names, nil
		case yaml.MappingNode:
			var doc document
			if err := root.Decode(&doc); err != nil {
				return nil, errors.NewValidationError("invalid roster document").WithCause(err)
			}
			return doc.Participants, nil
		}
	}

	return parseLines(data), nil
}

func parseLines(data []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// Normalize trims surrounding whitespace from every name.
func Normalize(names []string) Roster {
	out := make(Roster, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}

// Validate checks that the roster is non-empty and that every name is
// non-blank and unique.
func (r Roster) Validate() error {
	if len(r) == 0 {
		return errors.NewValidationError("roster is empty").
			WithField("participants").
			WithCause(errors.ErrEmptyRoster)
	}
	seen := make(map[string]int, len(r))
	for i, name := range r {
		if name == "" {
			return errors.NewValidationError(fmt.Sprintf("participant %d has a blank name", i+1)).
				WithField("participants")
		}
		if prev, dup := seen[name]; dup {
			return errors.NewValidationError(
				fmt.Sprintf("participant %q appears twice (entries %d and %d)", name, prev+1, i+1)).
				WithField("participants").
				WithValue(name)
		}
		seen[name] = i
	}
	return nil
}

// Contains reports whether name is on the roster.
func (r Roster) Contains(name string) bool {
	for _, n := range r {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns a copy of the roster as a plain slice.
func (r Roster) Names() []string {
	return append([]string(nil), r...)
}
