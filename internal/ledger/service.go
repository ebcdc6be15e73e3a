package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/utang/internal/auth"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// FetchPairHistory returns every record whose (payer, payee) is (a, b) or
	// (b, a), newest first, ties in insertion order.
	FetchPairHistory(ctx context.Context, a, b UserID) ([]Record, error)
	Ping(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PairHistory reconciles every record between viewpointID and counterpartID
// from the viewpoint user's side. Argument checks run before any storage access.
func (s *Service) PairHistory(ctx context.Context, viewer auth.Viewer, viewpointID, counterpartID UserID) (*History, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthenticated
	}

	if viewpointID == uuid.Nil {
		return nil, invalidArgument("viewpoint user id is required")
	}

	if counterpartID == uuid.Nil {
		return nil, invalidArgument("counterpart user id is required")
	}

	records, err := s.repo.FetchPairHistory(ctx, viewpointID, counterpartID)
	if err != nil {
		return nil, fmt.Errorf("fetching pair history: %w", err)
	}

	classified, total := Reconcile(records, viewpointID, counterpartID)

	return &History{Transactions: classified, Total: total}, nil
}

// Ping reports whether the underlying store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
