package port

import (
	"context"

	"github.com/google/uuid"

	"tubely/internal/domain"
)

// VideoRepository defines the contract for video record persistence.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, videoID uuid.UUID) (*domain.Video, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Video, int, error)
	Update(ctx context.Context, video *domain.Video) error
}
