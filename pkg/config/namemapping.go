package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adjsw/f1telemetry/pkg/model"
)

// nameMappingFile is the on-disk shape of the NameMappingFile config value.
// team is optional; when absent the override applies to that driver number
// regardless of team.
type nameMappingFile struct {
	Mappings []struct {
		DriverNumber int    `yaml:"driverNumber"`
		Team         *int   `yaml:"team"`
		Name         string `yaml:"name"`
	} `yaml:"mappings"`
}

// LoadNameMappings reads the YAML file at path into a DriverNameMappings
// table consumed by the session package's NameResolver (C7). A missing or
// empty path yields an empty table, not an error.
func LoadNameMappings(path string) (model.DriverNameMappings, error) {
	if path == "" {
		return model.DriverNameMappings{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return model.DriverNameMappings{}, err
	}

	var f nameMappingFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return model.DriverNameMappings{}, err
	}

	out := model.DriverNameMappings{Mappings: make([]model.DriverNameMapping, 0, len(f.Mappings))}
	for _, m := range f.Mappings {
		mapping := model.DriverNameMapping{DriverNumber: m.DriverNumber, Name: m.Name}
		if m.Team != nil {
			team := model.F1Team(*m.Team)
			mapping.Team = &team
		}
		out.Mappings = append(out.Mappings, mapping)
	}
	return out, nil
}
