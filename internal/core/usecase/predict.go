package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
	"github.com/kirillkom/loan-approval-predictor/internal/core/encoding"
	"github.com/kirillkom/loan-approval-predictor/internal/core/ports"
)

type PredictionUseCase struct {
	classifier ports.Classifier
}

func NewPredictionUseCase(classifier ports.Classifier) *PredictionUseCase {
	return &PredictionUseCase{classifier: classifier}
}

// PredictApplication scores a form submission given in human units.
func (uc *PredictionUseCase) PredictApplication(ctx context.Context, app domain.Application) (domain.PredictionResult, error) {
	features, err := encoding.EncodeForm(app)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	return uc.Score(ctx, features)
}

// PredictPrompt scores raw CLI answers given at dataset scale.
func (uc *PredictionUseCase) PredictPrompt(ctx context.Context, answers domain.PromptAnswers) (domain.PredictionResult, error) {
	features, err := encoding.EncodePrompt(answers)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	return uc.Score(ctx, features)
}

func (uc *PredictionUseCase) Score(ctx context.Context, features domain.FeatureVector) (domain.PredictionResult, error) {
	verdict, err := uc.classifier.Classify(ctx, features)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("classify application: %w", err)
	}
	probability, err := uc.classifier.ScoreApproval(ctx, features)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("score approval: %w", err)
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return domain.PredictionResult{}, fmt.Errorf("score approval: probability %v outside [0,1]", probability)
	}
	return domain.NewPredictionResult(verdict, probability), nil
}

// ScoreBatch scores every decodable row. Failures stay attached to their
// row and never abort the batch.
func (uc *PredictionUseCase) ScoreBatch(ctx context.Context, rows []domain.BatchRow) ([]domain.BatchResult, error) {
	results := make([]domain.BatchResult, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if row.Err != nil {
			results = append(results, domain.BatchResult{Row: row, Err: row.Err})
			continue
		}
		result, err := uc.PredictApplication(ctx, row.Application)
		results = append(results, domain.BatchResult{Row: row, Result: result, Err: err})
	}
	return results, nil
}
