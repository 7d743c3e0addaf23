package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/predict"
	"github.com/spigell/placement-advisor/internal/report"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the placement category of a student",
	Run: func(cmd *cobra.Command, _ []string) {
		runPredict(cmd)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	addProfileFlags(predictCmd)
}

func runPredict(cmd *cobra.Command) {
	logger, config := setup()

	predictor, err := loadPredictor(config, logger)
	if errors.Is(err, predict.ErrNoModel) {
		logger.Fatal("prediction model is not configured",
			zap.String("hint", "set the 'model' key in the configuration file or PLACEMENT_MODEL"),
		)
	}
	if err != nil {
		logger.Fatal("loading prediction model", zap.Error(err))
	}

	student, resume, source, err := resolveProfile(cmd, logger)
	if err != nil {
		logger.Fatal("building student profile", zap.Error(err))
	}

	prediction, err := predictor.Predict(student)
	if err != nil {
		logger.Fatal("predicting placement", zap.Error(err))
	}

	r := report.New(student)
	r.Source = source
	r.Resume = resume
	r.Prediction = prediction
	r.Category = prediction.Category
	r.Matches = nil

	if err := render(r, config); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}
}
