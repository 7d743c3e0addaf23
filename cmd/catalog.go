package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/report"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the companies of the catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		runCatalog(cmd)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringP("category", "c", "", "only list companies of the category (Premium, Standard, Basic)")
}

func runCatalog(cmd *cobra.Command) {
	logger, config := setup()

	c, err := loadCatalog(config, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	var category catalog.Category
	if raw, _ := cmd.Flags().GetString("category"); raw != "" {
		if category, err = catalog.ParseCategory(raw); err != nil {
			logger.Fatal("parsing category", zap.Error(err))
		}
	}

	if err := report.RenderCompanies(os.Stdout, c.ByCategory(category), config.format()); err != nil {
		logger.Fatal("rendering catalog", zap.Error(err))
	}
}
