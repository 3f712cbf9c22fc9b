package bot

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed texts.yaml
var defaultTexts []byte

// Texts maps a fixed-reply command name to its reply.
type Texts map[string]string

// Names returns the command names sorted.
func (t Texts) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadTexts decodes fixed replies from r. Names are lowercased.
//
// Postcondition: Returns a non-empty Texts whose names and replies are all
// non-blank, or a non-nil error.
func LoadTexts(r io.Reader) (Texts, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding texts: %w", err)
	}
	texts := make(Texts, len(raw))
	for name, reply := range raw {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("text command name %q is invalid", name)
		}
		if strings.TrimSpace(reply) == "" {
			return nil, fmt.Errorf("text command %q has an empty reply", name)
		}
		if _, dup := texts[key]; dup {
			return nil, fmt.Errorf("duplicate text command %q", key)
		}
		texts[key] = reply
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts must not be empty")
	}
	return texts, nil
}

// LoadTextsFile loads fixed replies from a YAML file.
func LoadTextsFile(path string) (Texts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texts %s: %w", path, err)
	}
	defer f.Close()
	return LoadTexts(f)
}

// DefaultTexts returns the built-in fixed replies.
//
// Postcondition: Panics if the embedded texts are invalid.
func DefaultTexts() Texts {
	t, err := LoadTexts(bytes.NewReader(defaultTexts))
	if err != nil {
		panic(fmt.Sprintf("bot: embedded texts invalid: %v", err))
	}
	return t
}
