package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the student profile from a resume",
	Run: func(cmd *cobra.Command, _ []string) {
		runExtract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("resume", "r", "", "resume file (.pdf, .txt or .md)")
	extractCmd.MarkFlagRequired("resume")
}

func runExtract(cmd *cobra.Command) {
	logger, config := setup()

	path, _ := cmd.Flags().GetString("resume")

	resume, err := extractResume(path, logger)
	if err != nil {
		logger.Fatal("extracting resume", zap.String("path", path), zap.Error(err))
	}

	r := report.New(resume.Profile)
	r.Source = path
	r.Resume = resume
	r.Matches = nil

	if err := render(r, config); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}
}
