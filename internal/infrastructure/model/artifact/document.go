// Package artifact loads a persisted, pre-trained classifier exported from
// scikit-learn and scores feature vectors with it in-process.
//
// The export is a YAML (or JSON) document carrying the fitted parameters and
// the training column order. Two estimator kinds are understood:
// logistic_regression (coef_ and intercept_) and random_forest /
// decision_tree (the tree_ arrays of every estimator).
package artifact

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const (
	KindLogisticRegression = "logistic_regression"
	KindRandomForest       = "random_forest"
	KindDecisionTree       = "decision_tree"
)

type Document struct {
	FormatVersion int             `yaml:"format_version"`
	Kind          string          `yaml:"kind"`
	ModelVersion  string          `yaml:"model_version"`
	FeatureNames  []string        `yaml:"feature_names"`
	Classes       []int           `yaml:"classes"`
	Logistic      *LogisticParams `yaml:"logistic"`
	Forest        *ForestParams   `yaml:"forest"`
}

type LogisticParams struct {
	Coefficients []float64 `yaml:"coefficients"`
	Intercept    float64   `yaml:"intercept"`
}

type ForestParams struct {
	Trees []Tree `yaml:"trees"`
}

// Tree mirrors sklearn's tree_ arrays. A node is a leaf when its left child
// is -1; value holds per-class weights at each node.
type Tree struct {
	ChildrenLeft  []int       `yaml:"children_left"`
	ChildrenRight []int       `yaml:"children_right"`
	Feature       []int       `yaml:"feature"`
	Threshold     []float64   `yaml:"threshold"`
	Value         [][]float64 `yaml:"value"`
}

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var def any
	if err := json.Unmarshal(schemaJSON, &def); err != nil {
		return nil, fmt.Errorf("parse artifact schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	const url = "schema://loan-model-artifact.json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add artifact schema: %w", err)
	}
	return c.Compile(url)
})

// decodeDocument parses raw bytes, validates them against the artifact
// schema and decodes the typed document.
func decodeDocument(raw []byte) (*Document, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	if generic == nil {
		return nil, fmt.Errorf("artifact is empty")
	}

	// Round-trip through JSON so the validator sees JSON-native values.
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("normalize artifact: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, fmt.Errorf("normalize artifact: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("artifact schema validation failed: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &doc, nil
}
