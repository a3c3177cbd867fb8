package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

type weightsFile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// LoadWeights reads a weight configuration from a YAML file of the form:
//
//	weights:
//	  SINGLE_BIDDER: 1.0
//	  VENDOR_REPETITION: 1.2
//
// Pattern types absent from the file keep their default weight of 1.0.
// Unknown pattern types and non-positive weights are configuration errors.
func LoadWeights(path string) (models.WeightConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ConfigurationError{
			Field:  "weights_path",
			Reason: fmt.Sprintf("read %s: %v", path, err),
		}
	}

	var file weightsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &models.ConfigurationError{
			Field:  "weights_path",
			Reason: fmt.Sprintf("parse %s: %v", path, err),
		}
	}

	weights := models.DefaultWeights()
	for name, value := range file.Weights {
		weights[models.PatternType(name)] = value
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return weights, nil
}
