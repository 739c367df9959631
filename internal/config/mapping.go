package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/docsync/pkg/errors"
	"github.com/agentstation/docsync/pkg/mapping"
	"github.com/agentstation/docsync/pkg/properties"
)

// mappingFile is the YAML shape of the mapping document:
//
//	columns:
//	  - column: Name
//	    property: 名前
//	    kind: title
//	  - column: Group
//	    property: マルチタグ
//	    kind: multi_select
//	key:
//	  - Name
type mappingFile struct {
	Columns []mappingColumn `yaml:"columns"`
	Key     []string        `yaml:"key"`
}

type mappingColumn struct {
	Column   string `yaml:"column"`
	Property string `yaml:"property"`
	Kind     string `yaml:"kind"`
}

// LoadMapping parses the mapping file and returns the validated field
// mapping and key spec. Kind names are checked here so a typo fails at
// startup rather than silently skipping every row's field.
func LoadMapping(path string) (*mapping.Mapping, mapping.KeySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.WrapIO("read", path, err)
	}

	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, errors.WrapParse("yaml", path, err)
	}

	fields := make([]mapping.Field, 0, len(file.Columns))
	for _, c := range file.Columns {
		kind, err := properties.ParseKind(c.Kind)
		if err != nil {
			return nil, nil, errors.NewConfigError("mapping",
				"column "+c.Column+" has unsupported kind "+c.Kind, err)
		}
		fields = append(fields, mapping.Field{
			Column:   c.Column,
			Property: c.Property,
			Kind:     kind,
		})
	}

	m, err := mapping.New(fields)
	if err != nil {
		return nil, nil, err
	}

	spec := mapping.KeySpec(file.Key)
	if err := spec.Validate(m); err != nil {
		return nil, nil, err
	}
	return m, spec, nil
}
