package filtering

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/catalog"
)

type excludedCompaniesFilter struct {
	companies []string
	disabled  bool
	reason    string
	logger    *zap.Logger
}

// NewExcludedCompanies creates a filter that removes companies listed in the config. Names are matched case-insensitively.
func NewExcludedCompanies(companies []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &excludedCompaniesFilter{
		companies: companies,
		logger:    logger,
	}
}

func (f *excludedCompaniesFilter) Name() string { return "excluded_companies" }

func (f *excludedCompaniesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludedCompaniesFilter) IsEnabled() bool { return !f.disabled }

func (f *excludedCompaniesFilter) Validate() error { return nil }

func (f *excludedCompaniesFilter) Apply(companies []catalog.Company) ([]catalog.Company, Step, error) {
	initial := len(companies)
	if len(f.companies) == 0 {
		return companies, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded := make(map[string]struct{}, len(f.companies))
	for _, name := range f.companies {
		excluded[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	kept, dropped := keep(companies, func(c catalog.Company) bool {
		_, ok := excluded[strings.ToLower(strings.TrimSpace(c.Name))]
		return !ok
	})

	if len(dropped) > 0 {
		f.logger.Info("excluding companies by config",
			zap.Strings("excluded_companies", dropped),
			zap.Int("companies_left", len(kept)),
		)
	}

	return kept, stepOf(initial, kept), nil
}

func (f *excludedCompaniesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
