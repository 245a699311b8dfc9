package ddsynth

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalScore parses a score from .json or .yml data. JSON is tried first,
// as every JSON document is also YAML but the JSON errors are more helpful
// for JSON input.
func UnmarshalScore(data []byte) (Score, error) {
	var score Score
	if errJSON := json.Unmarshal(data, &score); errJSON != nil {
		score = Score{}
		if errYaml := yaml.Unmarshal(data, &score); errYaml != nil {
			return Score{}, fmt.Errorf("the score could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	return score, nil
}

// MarshalScore formats the score as YAML.
func MarshalScore(score Score) ([]byte, error) {
	b, err := yaml.Marshal(score)
	if err != nil {
		return nil, fmt.Errorf("could not marshal score: %w", err)
	}
	return b, nil
}
