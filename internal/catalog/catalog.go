package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const companiesKey = "companies"

//go:embed companies.yaml
var defaultCatalog []byte

// requiredFields are the keys every catalog entry must carry.
var requiredFields = []string{
	"name",
	"role",
	"location",
	"min_cgpa",
	"min_tenth",
	"min_twelfth",
	"skills_required",
	"package_min",
	"package_max",
	"package_category",
	"focus",
}

// Company is a single catalog entry. It is never modified after the catalog is loaded.
type Company struct {
	Name            string   `json:"name" yaml:"name" mapstructure:"name"`
	Role            string   `json:"role" yaml:"role" mapstructure:"role"`
	Location        string   `json:"location" yaml:"location" mapstructure:"location"`
	MinCGPA         float64  `json:"min_cgpa" yaml:"min_cgpa" mapstructure:"min_cgpa"`
	MinTenth        float64  `json:"min_tenth" yaml:"min_tenth" mapstructure:"min_tenth"`
	MinTwelfth      float64  `json:"min_twelfth" yaml:"min_twelfth" mapstructure:"min_twelfth"`
	SkillsRequired  []string `json:"skills_required" yaml:"skills_required" mapstructure:"skills_required"`
	PackageMin      float64  `json:"package_min" yaml:"package_min" mapstructure:"package_min"`
	PackageMax      float64  `json:"package_max" yaml:"package_max" mapstructure:"package_max"`
	PackageCategory Category `json:"package_category" yaml:"package_category" mapstructure:"package_category"`
	Focus           string   `json:"focus" yaml:"focus" mapstructure:"focus"`
}

// Package renders the salary band, e.g. "₹12-18 LPA".
func (c Company) Package() string {
	return fmt.Sprintf("₹%s-%s LPA", formatAmount(c.PackageMin), formatAmount(c.PackageMax))
}

func (c Company) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name must not be empty")
	}
	if c.MinCGPA < 0 || c.MinCGPA > 10 {
		return fmt.Errorf("min_cgpa %.2f is out of range [0, 10]", c.MinCGPA)
	}
	if !c.PackageCategory.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c.PackageCategory)
	}
	return nil
}

// Catalog is the read-only company reference data. It is safe for concurrent readers.
type Catalog struct {
	companies []Company
}

// New validates the companies and builds a catalog. Any invalid entry fails the whole catalog.
func New(companies []Company) (*Catalog, error) {
	for idx, company := range companies {
		if err := company.validate(); err != nil {
			return nil, fmt.Errorf("company #%d (%s): %w", idx, company.Name, err)
		}
	}

	owned := make([]Company, len(companies))
	for idx, company := range companies {
		company.SkillsRequired = append([]string(nil), company.SkillsRequired...)
		owned[idx] = company
	}

	return &Catalog{companies: owned}, nil
}

// Load reads a catalog document (yaml or json, chosen by the file extension).
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	return fromViper(v)
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(defaultCatalog)); err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Catalog, error) {
	if !v.IsSet(companiesKey) {
		return nil, fmt.Errorf("catalog document has no %q key", companiesKey)
	}

	entries, ok := v.Get(companiesKey).([]any)
	if !ok {
		return nil, fmt.Errorf("catalog %q must be a list", companiesKey)
	}

	companies := make([]Company, 0, len(entries))
	for idx, entry := range entries {
		company, err := decodeCompany(entry)
		if err != nil {
			return nil, fmt.Errorf("company #%d: %w", idx, err)
		}
		companies = append(companies, company)
	}

	return New(companies)
}

func decodeCompany(entry any) (Company, error) {
	var company Company

	normalized := make(map[string]any)
	switch raw := entry.(type) {
	case map[string]any:
		for key, value := range raw {
			normalized[strings.ToLower(key)] = value
		}
	case map[any]any:
		for key, value := range raw {
			normalized[strings.ToLower(fmt.Sprintf("%v", key))] = value
		}
	default:
		return company, fmt.Errorf("entry must be a mapping, got %T", entry)
	}

	for _, field := range requiredFields {
		value, ok := normalized[field]
		if !ok {
			return company, fmt.Errorf("missing required field %q", field)
		}
		if value == nil {
			return company, fmt.Errorf("required field %q is null", field)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &company,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return company, err
	}

	if err := decoder.Decode(normalized); err != nil {
		return company, fmt.Errorf("decode: %w", err)
	}

	return company, nil
}

// Companies returns the entries in catalog order.
func (c *Catalog) Companies() []Company {
	out := make([]Company, len(c.companies))
	copy(out, c.companies)
	return out
}

// ByCategory returns the entries of the given tier in catalog order. An empty category returns everything.
func (c *Catalog) ByCategory(category Category) []Company {
	if category == "" {
		return c.Companies()
	}

	out := make([]Company, 0, len(c.companies))
	for _, company := range c.companies {
		if company.PackageCategory == category {
			out = append(out, company)
		}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.companies)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
