package governance

import (
	"errors"
	"testing"

	"github.com/concordai/concord/pkg/domain"
)

func TestBatchPolicyAdmit(t *testing.T) {
	tests := []struct {
		name    string
		policy  BatchPolicy
		size    int
		wantErr bool
	}{
		{"under limit", BatchPolicy{MaxActions: 10}, 9, false},
		{"at limit", BatchPolicy{MaxActions: 10}, 10, false},
		{"over limit", BatchPolicy{MaxActions: 10}, 11, true},
		{"empty batch", BatchPolicy{MaxActions: 10}, 0, false},
		{"zero limit disables check", BatchPolicy{MaxActions: 0}, 100000, false},
		{"negative limit disables check", BatchPolicy{MaxActions: -1}, 100000, false},
		{"default policy admits typical batches", DefaultBatchPolicy(), 256, false},
		{"default policy caps oversized batches", DefaultBatchPolicy(), 257, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Admit(tt.size)
			if tt.wantErr && err == nil {
				t.Fatalf("Admit(%d) expected error, got none", tt.size)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Admit(%d) unexpected error: %v", tt.size, err)
			}
		})
	}
}

func TestBatchPolicyErrorShape(t *testing.T) {
	err := BatchPolicy{MaxActions: 2}.Admit(5)
	if err == nil {
		t.Fatal("expected admission error")
	}

	if !errors.Is(err, domain.ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}

	var ce *domain.CoordinationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *domain.CoordinationError, got %T", err)
	}
	if ce.Code != "BATCH_LIMIT" {
		t.Errorf("expected code BATCH_LIMIT, got %q", ce.Code)
	}
	if got := domain.SeverityOf(err); got != domain.SeverityMedium {
		t.Errorf("expected medium severity, got %q", got)
	}
	if ce.Details["batch_size"] != 5 || ce.Details["max_actions"] != 2 {
		t.Errorf("details should name both sizes, got %v", ce.Details)
	}
}
