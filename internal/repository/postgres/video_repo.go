package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tubely/internal/domain"
	"tubely/internal/port"
)

type videoRepo struct {
	db *sqlx.DB
}

// NewVideoRepo creates a new PostgreSQL-backed VideoRepository.
func NewVideoRepo(db *sqlx.DB) port.VideoRepository {
	return &videoRepo{db: db}
}

func (r *videoRepo) Create(ctx context.Context, video *domain.Video) error {
	now := time.Now().UTC()
	video.CreatedAt = now
	video.UpdatedAt = now

	query := `INSERT INTO videos
		(id, user_id, title, description, video_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		video.ID, video.UserID, video.Title, video.Description, video.VideoURL,
		video.CreatedAt, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("videoRepo.Create: %w", err)
	}
	return nil
}

func (r *videoRepo) GetByID(ctx context.Context, videoID uuid.UUID) (*domain.Video, error) {
	var video domain.Video
	err := r.db.GetContext(ctx, &video,
		`SELECT id, user_id, title, description, video_url, created_at, updated_at
		 FROM videos WHERE id = $1`, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("videoRepo.GetByID: %w", err)
	}
	return &video, nil
}

func (r *videoRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Video, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM videos WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("videoRepo.ListByUser count: %w", err)
	}

	var videos []domain.Video
	err = r.db.SelectContext(ctx, &videos,
		`SELECT id, user_id, title, description, video_url, created_at, updated_at
		 FROM videos WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("videoRepo.ListByUser: %w", err)
	}
	return videos, total, nil
}

// Update writes the mutable fields of a single row, which Postgres applies
// atomically. Concurrent updates to the same video are last-writer-wins.
func (r *videoRepo) Update(ctx context.Context, video *domain.Video) error {
	video.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE videos SET title = $1, description = $2, video_url = $3, updated_at = $4
		 WHERE id = $5`,
		video.Title, video.Description, video.VideoURL, video.UpdatedAt, video.ID)
	if err != nil {
		return fmt.Errorf("videoRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
