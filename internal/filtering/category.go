package filtering

import (
	"fmt"

	"github.com/spigell/placement-advisor/internal/catalog"
)

type categoryFilter struct {
	category catalog.Category
	disabled bool
	reason   string
}

// NewCategory creates a filter that keeps companies of the given package tier.
// An empty category disables the step.
func NewCategory(category catalog.Category) Filter {
	f := &categoryFilter{category: category}
	if category == "" {
		f.Disable("no category requested")
	}
	return f
}

func (f *categoryFilter) Name() string { return "category" }

func (f *categoryFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *categoryFilter) IsEnabled() bool { return !f.disabled }

func (f *categoryFilter) Validate() error {
	if !f.category.Valid() {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownCategory, f.category)
	}
	return nil
}

func (f *categoryFilter) Apply(companies []catalog.Company) ([]catalog.Company, Step, error) {
	initial := len(companies)
	kept, _ := keep(companies, func(c catalog.Company) bool {
		return c.PackageCategory == f.category
	})

	return kept, stepOf(initial, kept), nil
}

func (f *categoryFilter) Status() Status {
	details := map[string]string{}
	if f.category != "" {
		details["category"] = f.category.String()
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
