package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/advisor"
	"github.com/spigell/placement-advisor/internal/advisor/gemini"
	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/document"
	"github.com/spigell/placement-advisor/internal/extract"
	"github.com/spigell/placement-advisor/internal/filtering"
	"github.com/spigell/placement-advisor/internal/logger"
	"github.com/spigell/placement-advisor/internal/predict"
	"github.com/spigell/placement-advisor/internal/profile"
	"github.com/spigell/placement-advisor/internal/report"
	"github.com/spigell/placement-advisor/internal/secrets"
)

// setup builds the logger and the config every command starts from.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func loadCatalog(config *Config, logger *zap.Logger) (*catalog.Catalog, error) {
	path := strings.TrimSpace(config.Catalog)
	if path == "" {
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		logger.Debug("using embedded catalog", zap.Int("companies", c.Len()))
		return c, nil
	}

	c, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.String("path", path), zap.Int("companies", c.Len()))
	return c, nil
}

// loadPredictor returns predict.ErrNoModel when no model is configured.
func loadPredictor(config *Config, logger *zap.Logger) (*predict.Predictor, error) {
	return predict.Load(strings.TrimSpace(config.Model), logger)
}

func extractResume(path string, logger *zap.Logger) (*extract.Resume, error) {
	text, err := document.NewReader(logger).ReadText(path)
	if err != nil {
		return nil, err
	}

	return extract.New(nil, logger).Extract(text)
}

// rankingFilters turns the filters section into pipeline steps for the given student.
func rankingFilters(config *Config, student profile.Student, logger *zap.Logger) []filtering.Filter {
	return []filtering.Filter{
		filtering.NewExcludedCompanies(config.Filters.ExcludeCompanies, logger),
		filtering.NewLocations(config.Filters.Locations),
		filtering.NewEligibility(student.CGPA, config.Filters.EligibleOnly),
	}
}

// newAdvisor returns the configured advisor. Gemini falls back to the local advisor
// when it cannot be set up.
func newAdvisor(ctx context.Context, config *AdvisorConfig, logger *zap.Logger) advisor.Advisor {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	if provider == "local" {
		return advisor.Local{}
	}

	a, err := newGeminiAdvisor(ctx, config, logger)
	if err != nil {
		logger.Warn("falling back to local advisor", zap.Error(err))
		return advisor.Local{}
	}
	return a
}

func newGeminiAdvisor(ctx context.Context, config *AdvisorConfig, logger *zap.Logger) (*gemini.Advisor, error) {
	cfg := config.Gemini
	if cfg == nil {
		return nil, errors.New("advisor.gemini section is required")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: cfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set advisor.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Model),
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	a := gemini.NewAdvisor(generator, logger, cfg.MaxLogLength)
	a.SetInstructions(config.Instructions)
	return a, nil
}

func render(r *report.Report, config *Config) error {
	return report.Render(os.Stdout, r, config.format())
}
