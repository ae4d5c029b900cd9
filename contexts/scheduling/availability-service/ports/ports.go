package ports

import (
	"context"
	"time"

	"atelier/contexts/scheduling/availability-service/domain/entities"
)

// CommitmentSource supplies the requesting principal's existing commitments
// for one calendar day. The composition root bridges the booking repository
// in here so booked slots occupy their hour cells.
type CommitmentSource interface {
	ListCommitments(ctx context.Context, principalID string, date string) ([]entities.Commitment, error)
}

type Clock interface {
	Now() time.Time
}
