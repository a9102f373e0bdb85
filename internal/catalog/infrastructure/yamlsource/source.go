package yamlsource

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	catalog "solution-analytics/internal/catalog/domain"
	table "solution-analytics/internal/table/domain"
)

// ErrEmptyDocument is returned when a catalog document defines no variables.
var ErrEmptyDocument = errors.New("catalog yaml: no variables defined")

// Column is one column entry of a variable definition.
type Column struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Variable is the YAML shape of a variable schema.
type Variable struct {
	Unit    string   `yaml:"unit"`
	Convert bool     `yaml:"convert"`
	Columns []Column `yaml:"columns"`
}

// Document is the YAML catalog file.
type Document struct {
	ConversionFactor float64             `yaml:"conversion_factor"`
	Variables        map[string]Variable `yaml:"variables"`
	Aliases          map[string]string   `yaml:"aliases"`
}

// Decode parses a catalog document.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("catalog yaml: %w", err)
	}
	return doc, nil
}

// Schemas converts the document variables into schemas sorted by key.
// A trailing numeric Value column is added when the definition omits it.
func (d Document) Schemas() ([]catalog.VariableSchema, error) {
	keys := make([]string, 0, len(d.Variables))
	for k := range d.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	schemas := make([]catalog.VariableSchema, 0, len(keys))
	for _, key := range keys {
		v := d.Variables[key]
		fields := make([]table.Field, 0, len(v.Columns)+1)
		for _, c := range v.Columns {
			typ, err := table.ParseType(c.Type)
			if err != nil {
				return nil, fmt.Errorf("catalog yaml: %s.%s: %w", key, c.Name, err)
			}
			fields = append(fields, table.Field{Name: c.Name, Type: typ})
		}
		if len(fields) == 0 || fields[len(fields)-1].Name != catalog.ValueColumn {
			fields = append(fields, table.Field{Name: catalog.ValueColumn, Type: table.Numeric})
		}
		schemas = append(schemas, catalog.VariableSchema{
			Key:     key,
			Columns: fields,
			Unit:    v.Unit,
			Convert: v.Convert,
		})
	}
	return schemas, nil
}

func (d Document) options(existing map[string]string) []catalog.Option {
	var opts []catalog.Option
	if d.ConversionFactor != 0 {
		opts = append(opts, catalog.WithConversionFactor(d.ConversionFactor))
	}
	aliases := make([]string, 0, len(d.Aliases))
	for alias := range d.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		key := d.Aliases[alias]
		if existing[alias] == key {
			continue
		}
		opts = append(opts, catalog.WithAlias(alias, key))
	}
	return opts
}

// Load builds a standalone catalog from a YAML document.
func Load(data []byte) (*catalog.Catalog, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Variables) == 0 {
		return nil, ErrEmptyDocument
	}
	schemas, err := doc.Schemas()
	if err != nil {
		return nil, err
	}
	return catalog.NewCatalog(schemas, doc.options(nil)...)
}

// LoadFile reads and loads a catalog file.
func LoadFile(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Extend overlays a YAML document on an existing catalog.
func Extend(base *catalog.Catalog, data []byte) (*catalog.Catalog, error) {
	if base == nil {
		return nil, errors.New("catalog yaml: nil base catalog")
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	schemas, err := doc.Schemas()
	if err != nil {
		return nil, err
	}
	return base.Extend(schemas, doc.options(base.Aliases())...)
}

// ExtendFile reads a YAML file and overlays it on base.
func ExtendFile(base *catalog.Catalog, path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Extend(base, data)
}
