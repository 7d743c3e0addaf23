package predict

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/placement-advisor/internal/catalog"
)

// StandardScaler centers every feature on its training mean and divides by its standard deviation.
type StandardScaler struct {
	Mean  []float64 `yaml:"mean" json:"mean"`
	Scale []float64 `yaml:"scale" json:"scale"`
}

func (s StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) || len(features) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(features))
	}

	out := make([]float64, len(features))
	for i, v := range features {
		scale := s.Scale[i]
		// a constant training feature has no spread
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// SoftmaxClassifier is a multinomial logistic regression: one weight row and intercept per class.
type SoftmaxClassifier struct {
	Coefficients [][]float64 `yaml:"coefficients" json:"coefficients"`
	Intercepts   []float64   `yaml:"intercepts" json:"intercepts"`
}

func (c SoftmaxClassifier) validate(features int) error {
	if len(c.Coefficients) == 0 {
		return fmt.Errorf("classifier has no classes")
	}
	if len(c.Intercepts) != len(c.Coefficients) {
		return fmt.Errorf("classifier has %d intercepts for %d classes", len(c.Intercepts), len(c.Coefficients))
	}
	for i, row := range c.Coefficients {
		if len(row) != features {
			return fmt.Errorf("classifier row %d has %d weights, want %d", i, len(row), features)
		}
	}
	return nil
}

func (c SoftmaxClassifier) PredictProba(features []float64) ([]float64, error) {
	if err := c.validate(len(features)); err != nil {
		return nil, err
	}

	logits := make([]float64, len(c.Coefficients))
	maxLogit := math.Inf(-1)
	for k, row := range c.Coefficients {
		z := c.Intercepts[k]
		for i, w := range row {
			z += w * features[i]
		}
		logits[k] = z
		maxLogit = math.Max(maxLogit, z)
	}

	var sum float64
	for k, z := range logits {
		logits[k] = math.Exp(z - maxLogit)
		sum += logits[k]
	}
	for k := range logits {
		logits[k] /= sum
	}
	return logits, nil
}

// Predict returns the most probable class. Ties go to the lower index.
func (c SoftmaxClassifier) Predict(features []float64) (int, error) {
	proba, err := c.PredictProba(features)
	if err != nil {
		return 0, err
	}

	best := 0
	for k, v := range proba {
		if v > proba[best] {
			best = k
		}
	}
	return best, nil
}

// Artifact is the on-disk form of a trained model.
type Artifact struct {
	Features   []string          `yaml:"features" json:"features"`
	Classes    []string          `yaml:"classes" json:"classes"`
	Scaler     StandardScaler    `yaml:"scaler" json:"scaler"`
	Classifier SoftmaxClassifier `yaml:"classifier" json:"classifier"`
}

// Validate checks that the artifact was trained on the features this package produces.
func (a Artifact) Validate() error {
	if len(a.Features) > 0 {
		if len(a.Features) != len(FeatureNames) {
			return fmt.Errorf("model has %d features, want %d", len(a.Features), len(FeatureNames))
		}
		for i, name := range a.Features {
			if strings.TrimSpace(name) != FeatureNames[i] {
				return fmt.Errorf("model feature %d is %q, want %q", i, name, FeatureNames[i])
			}
		}
	}

	if len(a.Scaler.Mean) != len(FeatureNames) || len(a.Scaler.Scale) != len(FeatureNames) {
		return fmt.Errorf("scaler must have %d means and scales", len(FeatureNames))
	}
	if err := a.Classifier.validate(len(FeatureNames)); err != nil {
		return err
	}
	if len(a.Classes) > 0 && len(a.Classes) != len(a.Classifier.Coefficients) {
		return fmt.Errorf("model has %d classes but %d classifier rows", len(a.Classes), len(a.Classifier.Coefficients))
	}
	if len(a.Classes) == 0 && len(a.Classifier.Coefficients) != len(DefaultClasses) {
		return fmt.Errorf("model without class names must have %d classifier rows", len(DefaultClasses))
	}
	return nil
}

func (a Artifact) categories() ([]catalog.Category, error) {
	if len(a.Classes) == 0 {
		return DefaultClasses, nil
	}

	out := make([]catalog.Category, 0, len(a.Classes))
	for _, name := range a.Classes {
		category, err := catalog.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, nil
}

// Decode reads a YAML or JSON artifact. Unknown keys are rejected.
func Decode(data []byte) (*Artifact, error) {
	var artifact Artifact

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return &artifact, nil
}

// Load builds a predictor from the artifact at path. An empty path yields ErrNoModel.
func Load(path string, logger *zap.Logger) (*Predictor, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoModel
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	artifact, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	classes, err := artifact.categories()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if logger != nil {
		logger.Info("prediction model loaded", zap.String("path", path), zap.Int("classes", len(classes)))
	}

	return NewPredictor(artifact.Scaler, artifact.Classifier, classes, logger)
}
