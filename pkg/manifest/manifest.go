package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// Manifest is the desired membership of a set of roles
type Manifest struct {
	Roles []RoleSpec `yaml:"roles"`
}

// RoleSpec is the desired member list of one role
type RoleSpec struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// Parse reads a manifest and checks it for blank or repeated role names
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load parses the manifest file at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Validate reports every blank or duplicate role name
func (m *Manifest) Validate() error {
	var errs []string
	seen := make(map[string]bool, len(m.Roles))
	for i, role := range m.Roles {
		if strings.TrimSpace(role.Name) == "" {
			errs = append(errs, fmt.Sprintf("roles[%d]: name is required", i))
			continue
		}
		key := store.Normalize(role.Name)
		if seen[key] {
			errs = append(errs, fmt.Sprintf("roles[%d]: role %s is listed more than once", i, role.Name))
		}
		seen[key] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid manifest:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
