package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/matching"
	"github.com/spigell/placement-advisor/internal/predict"
	"github.com/spigell/placement-advisor/internal/report"
)

const (
	PromptShowDetails = "Show company details"
	PromptAdvise      = "Suggest skills to learn"
	PromptReportFile  = "Dump report to file"
	PromptExit        = "Exit"
	PromptBack        = "back"
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowDetails, PromptAdvise, PromptReportFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank catalog companies by fit for a student",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	addProfileFlags(matchCmd)

	matchCmd.Flags().StringP("category", "c", "", "rank companies of this category instead of the predicted one")
	matchCmd.Flags().IntP("top", "n", 0, "number of companies to show (default from top-n)")
	matchCmd.Flags().BoolP("advise", "a", false, "add skill-gap advice to the report")
	matchCmd.Flags().StringSlice("skip-filter", nil, "filters to skip for this run: category, excluded_companies, locations, eligibility")

	viper.BindPFlag("top-n", matchCmd.Flags().Lookup("top"))
	viper.BindPFlag("advisor.enabled", matchCmd.Flags().Lookup("advise"))
	viper.BindPFlag("filters.skip", matchCmd.Flags().Lookup("skip-filter"))
}

func runMatch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()

	logger.Info("starting the placement-advisor", zap.String("version", version))

	c, err := loadCatalog(config, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	student, resume, source, err := resolveProfile(cmd, logger)
	if err != nil {
		logger.Fatal("building student profile", zap.Error(err))
	}

	r := report.New(student)
	r.Source = source
	r.Resume = resume

	category, prediction, err := chooseCategory(cmd, config, r, logger)
	if err != nil {
		logger.Fatal("choosing category", zap.Error(err))
	}
	r.Category = category
	r.Prediction = prediction

	ranker := matching.NewRanker(c, logger, rankingFilters(config, student, logger)...)
	ranker.Skip(config.Filters.Skip...)

	matches, err := ranker.Rank(student, category, config.TopN)
	if err != nil {
		logger.Fatal("ranking companies", zap.Error(err))
	}
	r.Matches = matches

	logger.Info("ranked companies", zap.String("category", category.String()), zap.Int("count", len(matches)))

	if config.Advisor.Enabled && len(matches) > 0 {
		if err := advise(ctx, config, r, logger); err != nil {
			logger.Warn("skipping advice", zap.Error(err))
		}
	}

	if err := render(r, config); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive || len(matches) == 0 {
		return
	}

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, config, r, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// chooseCategory prefers --category, then the prediction. Without either the whole catalog is ranked.
func chooseCategory(cmd *cobra.Command, config *Config, r *report.Report, logger *zap.Logger) (catalog.Category, *predict.Prediction, error) {
	if raw, _ := cmd.Flags().GetString("category"); raw != "" {
		category, err := catalog.ParseCategory(raw)
		return category, nil, err
	}

	predictor, err := loadPredictor(config, logger)
	if errors.Is(err, predict.ErrNoModel) {
		logger.Info("no prediction model configured, ranking the whole catalog")
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	prediction, err := predictor.Predict(r.Profile)
	if err != nil {
		return "", nil, fmt.Errorf("predict placement: %w", err)
	}

	return prediction.Category, prediction, nil
}

func advise(ctx context.Context, config *Config, r *report.Report, logger *zap.Logger) error {
	a := newAdvisor(ctx, config.Advisor, logger)

	advice, err := a.Advise(ctx, r.Profile, r.Matches)
	if err != nil {
		return err
	}
	r.Advice = advice
	return nil
}

func handleAction(ctx context.Context, action string, config *Config, r *report.Report, logger *zap.Logger) error {
	switch action {
	case PromptShowDetails:
		return showDetails(r.Matches)
	case PromptAdvise:
		if err := advise(ctx, config, r, logger); err != nil {
			return fmt.Errorf("advise: %w", err)
		}
		return report.RenderAdvice(os.Stdout, r.Advice)
	case PromptReportFile:
		filename, err := report.DumpToTmpFile(r)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showDetails(matches []matching.Result) error {
	items := make([]string, 0, len(matches)+1)
	for idx, m := range matches {
		items = append(items, fmt.Sprintf("%d %s / %s / %.1f", idx+1, m.Company, m.Role, m.MatchScore))
	}

	companyPrompt := promptui.Select{
		Label: "Choose a company and press ENTER",
		Items: append(items, PromptBack),
	}

	idx, selected, err := companyPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	fmt.Print(describeMatch(matches[idx]))
	return nil
}

func describeMatch(m matching.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s, %s (%s)\n", m.Company, m.Role, m.Location)
	fmt.Fprintf(&b, "  package:    %s [%s]\n", m.Package, m.PackageCategory)
	fmt.Fprintf(&b, "  focus:      %s\n", m.Focus)
	fmt.Fprintf(&b, "  score:      %.1f (%s)\n", m.MatchScore, m.Strength())
	fmt.Fprintf(&b, "    cgpa %.1f, 10th %.1f, 12th %.1f, skills %.1f, experience %.1f\n",
		m.Components.CGPA, m.Components.Tenth, m.Components.Twelfth, m.Components.Skills, m.Components.Experience)

	cgpa := "meets"
	if !m.MeetsCGPA {
		cgpa = "below"
	}
	fmt.Fprintf(&b, "  cgpa:       %g required, %s\n", m.CGPARequired, cgpa)
	fmt.Fprintf(&b, "  matched:    %s\n", orNone(m.SkillsMatched))
	fmt.Fprintf(&b, "  missing:    %s\n", orNone(m.SkillsGap))

	return b.String()
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
