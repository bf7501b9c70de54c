// Package memory is an in-process report index used when no database is
// configured. Entries live as long as the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

type ReportRepository struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[string]domain.Report)}
}

func (r *ReportRepository) Create(_ context.Context, rep *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[rep.ID]; exists {
		return fmt.Errorf("report %s already exists", rep.ID)
	}
	r.reports[rep.ID] = *rep
	return nil
}

func (r *ReportRepository) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrReportNotFound, "get report", fmt.Errorf("id %s", id))
	}
	return &rep, nil
}
