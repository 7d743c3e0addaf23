package filtering

import (
	"strings"

	"github.com/spigell/placement-advisor/internal/catalog"
)

type locationsFilter struct {
	locations []string
	disabled  bool
	reason    string
}

// NewLocations creates a filter that keeps companies located in one of the given cities.
// An empty list lets every company through.
func NewLocations(locations []string) Filter {
	return &locationsFilter{locations: locations}
}

func (f *locationsFilter) Name() string { return "locations" }

func (f *locationsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *locationsFilter) IsEnabled() bool { return !f.disabled }

func (f *locationsFilter) Validate() error { return nil }

func (f *locationsFilter) Apply(companies []catalog.Company) ([]catalog.Company, Step, error) {
	initial := len(companies)
	if len(f.locations) == 0 {
		return companies, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept, _ := keep(companies, func(c catalog.Company) bool {
		for _, location := range f.locations {
			if strings.EqualFold(strings.TrimSpace(location), strings.TrimSpace(c.Location)) {
				return true
			}
		}
		return false
	})

	return kept, stepOf(initial, kept), nil
}

func (f *locationsFilter) Status() Status {
	details := map[string]string{}
	if len(f.locations) > 0 {
		details["locations"] = strings.Join(f.locations, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
