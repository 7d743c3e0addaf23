package filtering

import (
	"fmt"

	"github.com/spigell/placement-advisor/internal/catalog"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to catalog companies.
// Steps must keep the relative order of the companies they let through.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(companies []catalog.Company) ([]catalog.Company, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Filtering{
		steps:  steps,
		logger: logger,
	}
}

// Known reports whether name is one of the filters this package provides.
func Known(name string) bool {
	switch name {
	case "category", "excluded_companies", "locations", "eligibility":
		return true
	}
	return false
}

// Steps returns the configured steps in execution order.
func (f *Filtering) Steps() []Filter {
	return f.steps
}

// Run validates every enabled step and then executes them sequentially.
func (f *Filtering) Run(companies []catalog.Company) ([]catalog.Company, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(companies)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		companies = next
	}

	return companies, nil
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the companies accepted by the predicate in their original order
// together with the names of the dropped ones.
func keep(companies []catalog.Company, accept func(catalog.Company) bool) ([]catalog.Company, []string) {
	kept := make([]catalog.Company, 0, len(companies))
	var dropped []string

	for _, company := range companies {
		if accept(company) {
			kept = append(kept, company)
			continue
		}
		dropped = append(dropped, company.Name)
	}

	return kept, dropped
}

func stepOf(initial int, kept []catalog.Company) Step {
	return Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
