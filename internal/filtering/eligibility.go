package filtering

import (
	"fmt"
	"strconv"

	"github.com/spigell/placement-advisor/internal/catalog"
)

type eligibilityFilter struct {
	cgpa     float64
	disabled bool
	reason   string
}

// NewEligibility creates a filter that drops companies whose CGPA cut-off the student does not meet.
func NewEligibility(cgpa float64, enabled bool) Filter {
	f := &eligibilityFilter{cgpa: cgpa}
	if !enabled {
		f.Disable("eligible-only is not set")
	}
	return f
}

func (f *eligibilityFilter) Name() string { return "eligibility" }

func (f *eligibilityFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *eligibilityFilter) IsEnabled() bool { return !f.disabled }

func (f *eligibilityFilter) Validate() error {
	if f.cgpa < 0 || f.cgpa > 10 {
		return fmt.Errorf("cgpa %.2f is out of range [0, 10]", f.cgpa)
	}
	return nil
}

func (f *eligibilityFilter) Apply(companies []catalog.Company) ([]catalog.Company, Step, error) {
	initial := len(companies)
	kept, _ := keep(companies, func(c catalog.Company) bool {
		return f.cgpa >= c.MinCGPA
	})

	return kept, stepOf(initial, kept), nil
}

func (f *eligibilityFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"cgpa": strconv.FormatFloat(f.cgpa, 'f', -1, 64)},
	}
}
