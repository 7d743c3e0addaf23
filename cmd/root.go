package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/placement-advisor/internal/advisor/gemini"
	"github.com/spigell/placement-advisor/internal/filtering"
	"github.com/spigell/placement-advisor/internal/report"
)

const (
	app = "placement-advisor"

	defaultTopN         = 5
	defaultMaxLogLength = 200
)

type Config struct {
	Catalog string         `mapstructure:"catalog"`
	Model   string         `mapstructure:"model"`
	TopN    int            `mapstructure:"top-n"`
	Output  string         `mapstructure:"output"`
	Filters *FiltersConfig `mapstructure:"filters"`
	Advisor *AdvisorConfig `mapstructure:"advisor"`
}

type FiltersConfig struct {
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
	Locations        []string `mapstructure:"locations"`
	EligibleOnly     bool     `mapstructure:"eligible-only"`
	Skip             []string `mapstructure:"skip"`
}

type AdvisorConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Provider     string        `mapstructure:"provider"`
	Instructions string        `mapstructure:"instructions"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "placement-advisor predicts a placement tier from a resume and ranks companies by fit",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"catalog":                     "PLACEMENT_CATALOG",
		"model":                       "PLACEMENT_MODEL",
		"advisor.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is placement-advisor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("output", "o", "", "report format: text, json or yaml")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("top-n", defaultTopN)
	v.SetDefault("output", string(report.Text))
	v.SetDefault("advisor.gemini.model", gemini.DefaultModel)
	v.SetDefault("advisor.gemini.max-retries", gemini.DefaultMaxRetries)
	v.SetDefault("advisor.gemini.max-log-length", defaultMaxLogLength)
}

// initConfig reads the config file. The file is optional unless --config names one.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.Advisor == nil {
		config.Advisor = &AdvisorConfig{}
	}
	if config.Advisor.Gemini == nil {
		config.Advisor.Gemini = &GeminiConfig{}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.TopN < 0 {
		errs = append(errs, fmt.Errorf("top-n must not be negative, got %d", c.TopN))
	}
	if _, err := report.ParseFormat(c.Output); err != nil {
		errs = append(errs, err)
	}
	for _, name := range c.Filters.Skip {
		if !filtering.Known(name) {
			errs = append(errs, fmt.Errorf("unknown filter in filters.skip: %s", name))
		}
	}
	if provider := strings.ToLower(strings.TrimSpace(c.Advisor.Provider)); provider != "" && provider != "gemini" && provider != "local" {
		errs = append(errs, fmt.Errorf("unsupported advisor provider: %s", c.Advisor.Provider))
	}

	return errors.Join(errs...)
}

func (c *Config) format() report.Format {
	// validated in decodeConfig
	format, _ := report.ParseFormat(c.Output)
	return format
}
