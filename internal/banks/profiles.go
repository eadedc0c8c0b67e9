// Package banks holds the per-bank statement descriptors. A descriptor is
// plain data: the ingest pipeline is the same for every bank and only reads
// the header offset, identity strings, required columns, trim strategy and
// field mapping from here.
package banks

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/models"
)

//go:embed banks.toml
var defaultProfiles []byte

// Trim selects how the data block is cut out of a parsed sheet.
type Trim string

const (
	TrimNone     Trim = "none"
	TrimSentinel Trim = "sentinel"
	TrimBlankRow Trim = "blank_row"
)

// FieldMapping binds a native spreadsheet column to a canonical field.
type FieldMapping struct {
	Column string       `toml:"column"`
	Field  models.Field `toml:"field"`
}

// Profile describes one bank's statement export.
type Profile struct {
	Code            string         `toml:"code"`
	Name            string         `toml:"name"`
	Table           string         `toml:"table"`
	HeaderRow       int            `toml:"header_row"`
	IdentityRows    int            `toml:"identity_rows"`
	IdentityStrings []string       `toml:"identity_strings"`
	RequiredColumns []string       `toml:"required_columns"`
	Trim            Trim           `toml:"trim"`
	SentinelMarker  string         `toml:"sentinel_marker"`
	TrimHeaders     bool           `toml:"trim_headers"`
	NullTokens      []string       `toml:"null_tokens"`
	DateLayouts     []string       `toml:"date_layouts"`
	Fields          []FieldMapping `toml:"fields"`
}

// EventType is the audit event tag for uploads to this bank.
func (p *Profile) EventType() string {
	return "/statement/" + p.Code
}

// DateColumn returns the native column mapped to transaction_date.
func (p *Profile) DateColumn() string {
	for _, f := range p.Fields {
		if f.Field == models.FieldTransactionDate {
			return f.Column
		}
	}
	return ""
}

// Columns returns the canonical fields in descriptor order.
func (p *Profile) Columns() []models.Field {
	cols := make([]models.Field, 0, len(p.Fields))
	for _, f := range p.Fields {
		cols = append(cols, f.Field)
	}
	return cols
}

var identifierRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks that the profile is usable by the pipeline.
func (p *Profile) Validate() error {
	if !identifierRe.MatchString(p.Code) {
		return fmt.Errorf("bank code %q must be lower-case alphanumeric", p.Code)
	}
	if !identifierRe.MatchString(p.Table) {
		return fmt.Errorf("bank %s: invalid table name %q", p.Code, p.Table)
	}
	if p.HeaderRow < 0 || p.IdentityRows < 0 {
		return fmt.Errorf("bank %s: header_row and identity_rows must not be negative", p.Code)
	}
	switch p.Trim {
	case TrimNone, TrimBlankRow:
	case TrimSentinel:
		if p.SentinelMarker == "" {
			return fmt.Errorf("bank %s: sentinel trim needs a sentinel_marker", p.Code)
		}
	default:
		return fmt.Errorf("bank %s: unknown trim strategy %q", p.Code, p.Trim)
	}
	if len(p.Fields) == 0 {
		return fmt.Errorf("bank %s: no fields mapped", p.Code)
	}
	seen := make(map[models.Field]bool, len(p.Fields))
	for _, f := range p.Fields {
		if _, ok := f.Field.Kind(); !ok {
			return fmt.Errorf("bank %s: unknown field %q", p.Code, f.Field)
		}
		if seen[f.Field] {
			return fmt.Errorf("bank %s: field %q mapped twice", p.Code, f.Field)
		}
		seen[f.Field] = true
	}
	if !seen[models.FieldTransactionDate] {
		return fmt.Errorf("bank %s: transaction_date is not mapped", p.Code)
	}
	return nil
}

// Registry is the immutable set of bank profiles, keyed by code.
type Registry struct {
	profiles map[string]*Profile
}

type profileFile struct {
	Bank []Profile `toml:"bank"`
}

// Default returns the built-in HDFC, ICICI and SBI profiles.
func Default() (*Registry, error) {
	return Parse(defaultProfiles)
}

// Load reads profiles from path, or the built-in ones if path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bank profiles: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML profile document.
func Parse(data []byte) (*Registry, error) {
	var pf profileFile
	md, err := toml.Decode(string(data), &pf)
	if err != nil {
		return nil, fmt.Errorf("parsing bank profiles: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("parsing bank profiles: unknown keys %s", strings.Join(keys, ", "))
	}
	if len(pf.Bank) == 0 {
		return nil, errors.New("parsing bank profiles: no banks defined")
	}

	reg := &Registry{profiles: make(map[string]*Profile, len(pf.Bank))}
	for i := range pf.Bank {
		p := pf.Bank[i]
		if p.Trim == "" {
			p.Trim = TrimNone
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := reg.profiles[p.Code]; dup {
			return nil, fmt.Errorf("duplicate bank code %q", p.Code)
		}
		reg.profiles[p.Code] = &p
	}
	return reg, nil
}

// Get returns the profile for code, or nil.
func (r *Registry) Get(code string) *Profile {
	return r.profiles[strings.ToLower(code)]
}

// Codes returns the registered bank codes in sorted order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.profiles))
	for code := range r.profiles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// All returns every profile sorted by code.
func (r *Registry) All() []*Profile {
	out := make([]*Profile, 0, len(r.profiles))
	for _, code := range r.Codes() {
		out = append(out, r.profiles[code])
	}
	return out
}
