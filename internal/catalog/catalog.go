// Package catalog reads subject definitions from a YAML (or JSON) file.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"study-planner/internal/model"
)

var validStatuses = map[string]bool{"green": true, "yellow": true, "red": true}

type file struct {
	Subjects []model.Subject `yaml:"subjects"`
}

// LoadFile reads the catalog at path.
func LoadFile(path string) ([]model.Subject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a document of the form {subjects: [{id, name, status, description}]}.
// IDs must be unique and non-empty; status is lowercased and must be a traffic
// light colour when set.
func Decode(r io.Reader) ([]model.Subject, error) {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(doc.Subjects))
	out := make([]model.Subject, 0, len(doc.Subjects))
	for i, s := range doc.Subjects {
		s.ID = strings.TrimSpace(s.ID)
		s.Name = strings.TrimSpace(s.Name)
		s.Status = strings.ToLower(strings.TrimSpace(s.Status))
		if s.ID == "" {
			return nil, fmt.Errorf("subject #%d: id is required", i+1)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("subject %q: duplicate id", s.ID)
		}
		if s.Status != "" && !validStatuses[s.Status] {
			return nil, fmt.Errorf("subject %q: unknown status %q", s.ID, s.Status)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out, nil
}
