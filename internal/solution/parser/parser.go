package parser

import (
	"fmt"
	"log"
	"strings"

	catalog "solution-analytics/internal/catalog/domain"
	table "solution-analytics/internal/table/domain"
)

// Parser turns the sparse-entry block of one variable into a Table.
type Parser struct {
	catalog       *catalog.Catalog
	strict        bool
	lenientValues bool
	logger        *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrict scans the whole file, rejects a second separated block of the
// same key and propagates malformed entries instead of dropping them.
func WithStrict() Option {
	return func(p *Parser) {
		p.strict = true
	}
}

// WithLenientValues stores an unparseable Value token as the null sentinel
// instead of failing the build. Numeric dimension columns stay strict.
func WithLenientValues() Option {
	return func(p *Parser) {
		p.lenientValues = true
	}
}

// WithLogger sets the logger used for dropped-entry reports.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New constructs a Parser backed by a schema catalog.
func New(cat *catalog.Catalog, opts ...Option) (*Parser, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	p := &Parser{catalog: cat, logger: log.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Strict reports whether the parser runs in strict mode.
func (p *Parser) Strict() bool { return p.strict }

// Stats describes one parse.
type Stats struct {
	Key          string
	Rows         int
	Dropped      int
	DroppedLines []int
	// LastLine is the 1-based line number where scanning stopped.
	LastLine int
}

// Parse extracts the entries of key from lines. The first line is solver
// metadata and is skipped.
func (p *Parser) Parse(lines []string, key string) (*table.Table, error) {
	t, _, err := p.ParseWithStats(lines, key)
	return t, err
}

// ParseWithStats is Parse and also reports row and drop counts.
//
// In the default mode scanning stops at the first line that no longer
// belongs to key once collection has started; later blocks of the same key
// are never read.
func (p *Parser) ParseWithStats(lines []string, key string) (*table.Table, Stats, error) {
	stats := Stats{Key: key}
	schema, err := p.catalog.Get(key)
	if err != nil {
		return nil, stats, err
	}
	key = schema.Key
	stats.Key = key

	b, err := table.NewBuilder(schema.Columns, 0)
	if err != nil {
		return nil, stats, err
	}

	dims := schema.Dimensions()
	factor := p.catalog.ConversionFactor()
	var collecting, finished bool

	for n := 1; n < len(lines); n++ {
		lineNo := n + 1
		stats.LastLine = lineNo
		line := strings.TrimSpace(lines[n])

		if entryKey(line) != key {
			if collecting {
				collecting = false
				finished = true
				if !p.strict {
					break
				}
			}
			continue
		}
		if finished {
			return nil, stats, fmt.Errorf("%w: %s resumes at line %d", ErrNonContiguousRun, key, lineNo)
		}
		collecting = true

		dimValues, token, err := splitEntry(line, dims)
		if err != nil {
			if p.strict {
				return nil, stats, fmt.Errorf("line %d: %w", lineNo, err)
			}
			stats.Dropped++
			stats.DroppedLines = append(stats.DroppedLines, lineNo)
			p.logger.Printf("solution entry dropped: key=%s line=%d err=%v", key, lineNo, err)
			continue
		}

		row := make([]table.Value, 0, len(schema.Columns))
		for i, raw := range dimValues {
			field := schema.Columns[i]
			if field.Type != table.Numeric {
				row = append(row, table.Str(raw))
				continue
			}
			v, err := table.ParseNumber(raw)
			if err != nil {
				return nil, stats, fmt.Errorf("%w: line %d column %s: %q", ErrNumericCoercion, lineNo, field.Name, raw)
			}
			row = append(row, table.Num(v))
		}

		value, err := table.ParseNumber(token)
		switch {
		case err != nil && p.lenientValues:
			row = append(row, table.Null())
		case err != nil:
			return nil, stats, fmt.Errorf("%w: line %d column %s: %q", ErrNumericCoercion, lineNo, catalog.ValueColumn, token)
		case schema.Convert:
			row = append(row, table.Num(value/factor))
		default:
			row = append(row, table.Num(value))
		}

		if err := b.Append(row...); err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	stats.Rows = b.Len()
	return b.Build(), stats, nil
}

// entryKey returns the text before the first '[' of an entry line and the
// empty string for lines without a bracket.
func entryKey(line string) string {
	i := strings.IndexByte(line, '[')
	if i < 0 {
		return ""
	}
	return line[:i]
}

// splitEntry splits "K[d1,...,dn] value" into its dimension values and the
// final whitespace-delimited value token.
func splitEntry(line string, dims int) ([]string, string, error) {
	open := strings.IndexByte(line, '[')
	if open < 0 {
		return nil, "", fmt.Errorf("%w: missing '['", ErrMalformedEntry)
	}
	end := strings.IndexByte(line[open+1:], ']')
	if end < 0 {
		return nil, "", fmt.Errorf("%w: missing ']'", ErrMalformedEntry)
	}
	inner := line[open+1 : open+1+end]
	tail := strings.Fields(line[open+1+end+1:])
	if len(tail) == 0 {
		return nil, "", fmt.Errorf("%w: missing value", ErrMalformedEntry)
	}

	parts := strings.Split(inner, ",")
	if len(parts) != dims {
		return nil, "", fmt.Errorf("%w: expected %d dimensions, got %d", ErrMalformedEntry, dims, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, tail[len(tail)-1], nil
}
