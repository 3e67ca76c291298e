package config

import (
	"dao-explorer/internal/model"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// RegistryEntry is a DAO listed by the explorer.
type RegistryEntry struct {
	Name     string         `yaml:"name" json:"name"`
	Address  string         `yaml:"address" json:"address"`
	Template model.Template `yaml:"template" json:"template"`
	Network  string         `yaml:"network" json:"network"`
}

type Registry struct {
	DAOs []RegistryEntry `yaml:"daos" json:"daos"`
}

// LoadRegistry reads the DAO registry file. A missing file yields an empty
// registry.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Registry{}, nil
	} else if err != nil {
		return Registry{}, errors.New("failed to read the registry: " + err.Error())
	}

	return ParseRegistry(data)
}

func ParseRegistry(data []byte) (Registry, error) {
	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return Registry{}, errors.New("failed to parse the registry: " + err.Error())
	}

	var err error
	for i := range registry.DAOs {
		entry := &registry.DAOs[i]
		entry.Template = model.Template(strings.ToLower(string(entry.Template)))
		entry.Network = strings.ToLower(entry.Network)

		if entry.Address == "" {
			err = multierr.Append(err, fmt.Errorf("daos[%d]: address is missing", i))
		}
		if !entry.Template.IsValid() {
			err = multierr.Append(err, fmt.Errorf("daos[%d]: %w: %q", i, model.ErrUnknownTemplate, entry.Template))
		}
	}
	if err != nil {
		return Registry{}, err
	}

	return registry, nil
}

// ForNetwork returns the entries deployed on network; entries without a
// network belong to every network.
func (r Registry) ForNetwork(network string) []RegistryEntry {
	entries := make([]RegistryEntry, 0, len(r.DAOs))
	for _, entry := range r.DAOs {
		if entry.Network == "" || entry.Network == network {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (r Registry) Find(address string) (RegistryEntry, bool) {
	for _, entry := range r.DAOs {
		if entry.Address == address {
			return entry, true
		}
	}
	return RegistryEntry{}, false
}
