package catalog

import (
	"fmt"
	"sort"
	"strings"

	table "solution-analytics/internal/table/domain"
)

// ValueColumn is the name of the trailing scalar column of every variable.
const ValueColumn = "Value"

// DefaultConversionFactor converts PJ to TWh.
const DefaultConversionFactor = 3.6

// VariableSchema describes the columns and unit semantics of one solver variable.
type VariableSchema struct {
	Key     string
	Columns []table.Field
	Unit    string
	// Convert marks energy-content values that are divided by the catalog
	// conversion factor at ingestion.
	Convert bool
}

// Dimensions returns the number of bracketed dimensions per entry.
func (s VariableSchema) Dimensions() int {
	return len(s.Columns) - 1
}

// Validate checks that the schema ends in a numeric Value column and that
// column names are unique.
func (s VariableSchema) Validate() error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidSchema)
	}
	if strings.ContainsAny(s.Key, "[] \t") {
		return fmt.Errorf("%w: key %q contains reserved characters", ErrInvalidSchema, s.Key)
	}
	if len(s.Columns) < 2 {
		return fmt.Errorf("%w: %s needs at least one dimension and a value column", ErrInvalidSchema, s.Key)
	}
	last := s.Columns[len(s.Columns)-1]
	if last.Name != ValueColumn || last.Type != table.Numeric {
		return fmt.Errorf("%w: %s must end with a numeric %s column", ErrInvalidSchema, s.Key, ValueColumn)
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSchema, s.Key, err)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %s: duplicate column %s", ErrInvalidSchema, s.Key, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

func (s VariableSchema) clone() VariableSchema {
	s.Columns = append([]table.Field(nil), s.Columns...)
	return s
}

// Catalog is an immutable registry of variable schemas.
type Catalog struct {
	schemas map[string]VariableSchema
	aliases map[string]string
	factor  float64
}

// Option configures a Catalog.
type Option func(*Catalog) error

// WithConversionFactor overrides the energy conversion divisor.
func WithConversionFactor(factor float64) Option {
	return func(c *Catalog) error {
		if factor <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidConversionFactor, factor)
		}
		c.factor = factor
		return nil
	}
}

// WithAlias registers a short name that resolves to key.
func WithAlias(alias, key string) Option {
	return func(c *Catalog) error {
		if alias == "" || key == "" {
			return fmt.Errorf("%w: empty alias", ErrInvalidSchema)
		}
		if _, exists := c.schemas[alias]; exists {
			return fmt.Errorf("%w: alias %s shadows a key", ErrDuplicateKey, alias)
		}
		if _, exists := c.aliases[alias]; exists {
			return fmt.Errorf("%w: alias %s", ErrDuplicateKey, alias)
		}
		c.aliases[alias] = key
		return nil
	}
}

// NewCatalog constructs a Catalog from schemas.
func NewCatalog(schemas []VariableSchema, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		schemas: make(map[string]VariableSchema, len(schemas)),
		aliases: make(map[string]string),
		factor:  DefaultConversionFactor,
	}
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.schemas[s.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, s.Key)
		}
		c.schemas[s.Key] = s.clone()
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	for alias, key := range c.aliases {
		if _, ok := c.schemas[key]; !ok {
			return nil, fmt.Errorf("%w: alias %s targets unknown key %s", ErrSchemaNotFound, alias, key)
		}
	}
	return c, nil
}

// Get returns the schema registered for key or one of its aliases.
func (c *Catalog) Get(key string) (VariableSchema, error) {
	if c == nil {
		return VariableSchema{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, key)
	}
	if target, ok := c.aliases[key]; ok {
		key = target
	}
	s, ok := c.schemas[key]
	if !ok {
		return VariableSchema{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, key)
	}
	return s.clone(), nil
}

// Keys returns the registered keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.schemas))
	for k := range c.schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Schemas returns every schema sorted by key.
func (c *Catalog) Schemas() []VariableSchema {
	out := make([]VariableSchema, 0, len(c.schemas))
	for _, k := range c.Keys() {
		out = append(out, c.schemas[k].clone())
	}
	return out
}

// Aliases returns a copy of the alias table.
func (c *Catalog) Aliases() map[string]string {
	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

// ConversionFactor returns the divisor applied to convertible values.
func (c *Catalog) ConversionFactor() float64 {
	return c.factor
}

// Extend returns a new catalog holding the receiver's entries overlaid with
// schemas. Entries with an existing key replace the old definition.
func (c *Catalog) Extend(schemas []VariableSchema, opts ...Option) (*Catalog, error) {
	merged := make(map[string]VariableSchema, len(c.schemas)+len(schemas))
	for k, s := range c.schemas {
		merged[k] = s
	}
	for _, s := range schemas {
		merged[s.Key] = s
	}
	list := make([]VariableSchema, 0, len(merged))
	for _, s := range merged {
		list = append(list, s)
	}

	base := []Option{WithConversionFactor(c.factor)}
	for alias, key := range c.aliases {
		if _, replaced := merged[alias]; replaced {
			continue
		}
		base = append(base, WithAlias(alias, key))
	}
	return NewCatalog(list, append(base, opts...)...)
}
