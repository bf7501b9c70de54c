package artifact

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

// Model is a loaded classifier. It is immutable after Load and safe for
// concurrent use.
type Model struct {
	kind     string
	version  string
	logistic *LogisticParams
	trees    []Tree
}

// Load reads an artifact from disk. Every failure is reported as
// domain.ErrModelLoad so startup can treat it as fatal.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelLoad, "read model artifact", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Model, error) {
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelLoad, "decode model artifact", err)
	}
	m, err := newModel(doc)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelLoad, "validate model artifact", err)
	}
	return m, nil
}

func newModel(doc *Document) (*Model, error) {
	if !domain.SameFeatureOrder(doc.FeatureNames) {
		return nil, fmt.Errorf("feature_names %v do not match expected order %v", doc.FeatureNames, domain.FeatureNames)
	}
	if !slices.Equal(doc.Classes, []int{0, 1}) {
		return nil, fmt.Errorf("classes must be [0, 1], got %v", doc.Classes)
	}

	m := &Model{kind: doc.Kind, version: doc.ModelVersion}
	switch doc.Kind {
	case KindLogisticRegression:
		if len(doc.Logistic.Coefficients) != domain.FeatureCount {
			return nil, fmt.Errorf("logistic coefficients: want %d, got %d", domain.FeatureCount, len(doc.Logistic.Coefficients))
		}
		m.logistic = doc.Logistic
	case KindRandomForest, KindDecisionTree:
		if doc.Kind == KindDecisionTree && len(doc.Forest.Trees) != 1 {
			return nil, fmt.Errorf("decision_tree must carry exactly one tree, got %d", len(doc.Forest.Trees))
		}
		for i, tree := range doc.Forest.Trees {
			if err := validateTree(tree); err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
		}
		m.trees = doc.Forest.Trees
	default:
		return nil, fmt.Errorf("unsupported model kind %q", doc.Kind)
	}
	return m, nil
}

func validateTree(t Tree) error {
	n := len(t.ChildrenLeft)
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays have mismatched lengths")
	}
	for node := 0; node < n; node++ {
		left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
		if left == -1 {
			if right != -1 {
				return fmt.Errorf("node %d: leaf with a right child", node)
			}
			if t.Value[node][0]+t.Value[node][1] <= 0 {
				return fmt.Errorf("node %d: leaf without class weight", node)
			}
			continue
		}
		// Children always come after their parent, which rules out cycles.
		if left <= node || left >= n || right <= node || right >= n {
			return fmt.Errorf("node %d: child index out of range", node)
		}
		if f := t.Feature[node]; f < 0 || f >= domain.FeatureCount {
			return fmt.Errorf("node %d: feature index %d out of range", node, f)
		}
	}
	return nil
}

func (m *Model) Kind() string    { return m.kind }
func (m *Model) Version() string { return m.version }

// Classify returns the model's hard decision for x.
func (m *Model) Classify(_ context.Context, x domain.FeatureVector) (domain.Verdict, error) {
	if err := x.CheckFinite("artifact classify"); err != nil {
		return domain.VerdictRejected, err
	}
	if m.logistic != nil {
		if m.decision(x) > 0 {
			return domain.VerdictApproved, nil
		}
		return domain.VerdictRejected, nil
	}
	p0, p1 := m.forestProba(x)
	// argmax picks the first class on ties.
	if p1 > p0 {
		return domain.VerdictApproved, nil
	}
	return domain.VerdictRejected, nil
}

// ScoreApproval returns P(approved | x).
func (m *Model) ScoreApproval(_ context.Context, x domain.FeatureVector) (float64, error) {
	if err := x.CheckFinite("artifact score"); err != nil {
		return 0, err
	}
	if m.logistic != nil {
		return sigmoid(m.decision(x)), nil
	}
	_, p1 := m.forestProba(x)
	return p1, nil
}

func (m *Model) decision(x domain.FeatureVector) float64 {
	z := m.logistic.Intercept
	for i, w := range m.logistic.Coefficients {
		z += w * x[i]
	}
	return z
}

func (m *Model) forestProba(x domain.FeatureVector) (float64, float64) {
	var p0, p1 float64
	for _, tree := range m.trees {
		leaf := tree.leaf(x)
		v := tree.Value[leaf]
		total := v[0] + v[1]
		p0 += v[0] / total
		p1 += v[1] / total
	}
	n := float64(len(m.trees))
	return p0 / n, p1 / n
}

func (t Tree) leaf(x domain.FeatureVector) int {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
