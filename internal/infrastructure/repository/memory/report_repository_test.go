package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/kirillkom/loan-approval-predictor/internal/core/domain"
)

func TestCreateAndGet(t *testing.T) {
	repo := NewReportRepository()
	rep := &domain.Report{ID: "r-1", StorageKey: "r-1.pdf", Approved: true}
	if err := repo.Create(context.Background(), rep); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(context.Background(), "r-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.StorageKey != "r-1.pdf" || !got.Approved {
		t.Fatalf("unexpected report %+v", got)
	}

	got.StorageKey = "mutated"
	again, _ := repo.GetByID(context.Background(), "r-1")
	if again.StorageKey != "r-1.pdf" {
		t.Fatalf("stored report was mutated through returned pointer")
	}

	if err := repo.Create(context.Background(), rep); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestGetMissing(t *testing.T) {
	_, err := NewReportRepository().GetByID(context.Background(), "nope")
	if !domain.IsKind(err, domain.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	repo := NewReportRepository()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = repo.Create(context.Background(), &domain.Report{ID: id})
			_, _ = repo.GetByID(context.Background(), id)
		}(i)
	}
	wg.Wait()
}
