// Package predict maps a student profile to a placement package category.
//
// The predictor is a scaler followed by a classifier. Both come from a model artifact trained
// elsewhere and loaded once at startup.
package predict

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/placement-advisor/internal/catalog"
	"github.com/spigell/placement-advisor/internal/profile"
)

// ErrNoModel is returned when prediction is requested without a model artifact.
var ErrNoModel = errors.New("no prediction model configured")

// FeatureNames lists the classifier inputs in the order Features produces them.
var FeatureNames = []string{
	"tenth_marks",
	"twelfth_marks",
	"cgpa",
	"internships",
	"training",
	"projects",
	"communication_level",
	"technical_course",
	"technical_skills_score",
}

// DefaultClasses is the label order of the shipped classifier.
var DefaultClasses = []catalog.Category{catalog.Basic, catalog.NotPlaced, catalog.Premium, catalog.Standard}

type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

type Classifier interface {
	Predict(features []float64) (int, error)
	PredictProba(features []float64) ([]float64, error)
}

// Probability is the classifier's confidence in one category.
type Probability struct {
	Category catalog.Category `json:"category" yaml:"category"`
	Value    float64          `json:"value" yaml:"value"`
}

type Prediction struct {
	Category      catalog.Category `json:"category" yaml:"category"`
	Confidence    float64          `json:"confidence" yaml:"confidence"`
	Probabilities []Probability    `json:"probabilities" yaml:"probabilities"`
}

// Predictor is safe for concurrent use once built; it holds no mutable state.
type Predictor struct {
	scaler     Scaler
	classifier Classifier
	classes    []catalog.Category
	logger     *zap.Logger
}

func NewPredictor(scaler Scaler, classifier Classifier, classes []catalog.Category, logger *zap.Logger) (*Predictor, error) {
	if scaler == nil || classifier == nil {
		return nil, ErrNoModel
	}
	if len(classes) == 0 {
		classes = DefaultClasses
	}
	for _, class := range classes {
		if !class.Valid() {
			return nil, fmt.Errorf("class %q: %w", class, catalog.ErrUnknownCategory)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Predictor{
		scaler:     scaler,
		classifier: classifier,
		classes:    append([]catalog.Category(nil), classes...),
		logger:     logger,
	}, nil
}

// Features builds the classifier input vector. Flags become 0 or 1.
func Features(s profile.Student) []float64 {
	return []float64{
		s.TenthMarks,
		s.TwelfthMarks,
		s.CGPA,
		flag(s.Internships),
		flag(s.Training),
		flag(s.Projects),
		float64(s.CommunicationLevel),
		flag(s.TechnicalCourse),
		float64(s.TechnicalSkillsScore),
	}
}

func flag(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// Predict scales the profile features and classifies them.
func (p *Predictor) Predict(s profile.Student) (*Prediction, error) {
	scaled, err := p.scaler.Transform(Features(s))
	if err != nil {
		return nil, fmt.Errorf("scale features: %w", err)
	}

	idx, err := p.classifier.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	if idx < 0 || idx >= len(p.classes) {
		return nil, fmt.Errorf("classifier returned class %d, only %d known", idx, len(p.classes))
	}

	proba, err := p.classifier.PredictProba(scaled)
	if err != nil {
		return nil, fmt.Errorf("class probabilities: %w", err)
	}
	if len(proba) != len(p.classes) {
		return nil, fmt.Errorf("classifier returned %d probabilities for %d classes", len(proba), len(p.classes))
	}

	prediction := &Prediction{
		Category:      p.classes[idx],
		Confidence:    proba[idx],
		Probabilities: make([]Probability, 0, len(proba)),
	}
	for i, v := range proba {
		prediction.Probabilities = append(prediction.Probabilities, Probability{Category: p.classes[i], Value: v})
	}

	p.logger.Debug("placement predicted",
		zap.String("category", prediction.Category.String()),
		zap.Float64("confidence", prediction.Confidence),
	)

	return prediction, nil
}
