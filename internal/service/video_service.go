package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tubely/internal/domain"
	"tubely/internal/logger"
	"tubely/internal/port"
	"tubely/internal/staging"
)

// VideoCreateInput is the DTO for creating a draft video record.
type VideoCreateInput struct {
	UserID      uuid.UUID
	Title       string
	Description string
}

// IngestInput is the DTO for a video upload. Size is the declared length of
// Body, or -1 when unknown.
type IngestInput struct {
	VideoID     uuid.UUID
	UserID      uuid.UUID
	Body        io.Reader
	ContentType string
	Size        int64
}

// VideoServiceConfig holds the limits applied by VideoService.
type VideoServiceConfig struct {
	MaxUploadBytes int64
	PresignTTL     time.Duration
}

// VideoService defines the video management contract. Every video it returns
// has been passed through Resolve.
type VideoService interface {
	Create(ctx context.Context, input VideoCreateInput) (*domain.Video, error)
	Ingest(ctx context.Context, input IngestInput) (*domain.Video, error)
	GetByID(ctx context.Context, videoID uuid.UUID) (*domain.Video, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Video, int, error)
	Resolve(ctx context.Context, video *domain.Video) (*domain.Video, error)
}

type videoService struct {
	videoRepo port.VideoRepository
	prober    port.MediaProber
	optimizer port.MediaOptimizer
	relocator port.Relocator
	staging   *staging.Area
	cfg       VideoServiceConfig
	log       zerolog.Logger
}

// NewVideoService creates a new VideoService implementation.
func NewVideoService(
	videoRepo port.VideoRepository,
	prober port.MediaProber,
	optimizer port.MediaOptimizer,
	relocator port.Relocator,
	stagingArea *staging.Area,
	cfg VideoServiceConfig,
) VideoService {
	return &videoService{
		videoRepo: videoRepo,
		prober:    prober,
		optimizer: optimizer,
		relocator: relocator,
		staging:   stagingArea,
		cfg:       cfg,
		log:       logger.Component("video_service"),
	}
}

func (s *videoService) Create(ctx context.Context, input VideoCreateInput) (*domain.Video, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	video := &domain.Video{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("creating video: %w", err)
	}
	return video, nil
}

// Ingest runs the upload pipeline for one video: validate, authorize, stage,
// classify, optimize, upload, record. Staged files are removed on every exit
// path once staging has begun, and the record is only written after the
// upload succeeded.
func (s *videoService) Ingest(ctx context.Context, input IngestInput) (*domain.Video, error) {
	run := newIngestRun(s.log, input)

	ext, err := s.validate(input)
	if err != nil {
		return nil, run.fail(err)
	}
	run.advance(domain.IngestValidated)

	video, err := s.videoRepo.GetByID(ctx, input.VideoID)
	if err != nil {
		return nil, run.fail(err)
	}
	if video.UserID != input.UserID {
		return nil, run.fail(domain.ErrForbidden)
	}
	run.advance(domain.IngestAuthorized)

	stage, err := s.staging.Begin(video.ID)
	if err != nil {
		return nil, run.fail(err)
	}
	defer func() {
		if err := stage.Release(); err != nil {
			run.log.Error().Err(err).Strs("paths", stage.Tracked()).Msg("videoService.Ingest: cleanup failed")
		}
	}()

	stagedPath, size, err := stage.Stage(input.Body, ext, s.cfg.MaxUploadBytes)
	if err != nil {
		return nil, run.fail(err)
	}
	run.log = run.log.With().Int64("bytes", size).Logger()
	run.advance(domain.IngestStaged)

	geometry, err := s.prober.Probe(ctx, stagedPath)
	if err != nil {
		return nil, run.fail(err)
	}
	aspect := geometry.Aspect()
	key, err := storageKey(aspect, ext)
	if err != nil {
		return nil, run.fail(err)
	}
	run.log = run.log.With().Str("aspect", string(aspect)).Str("key", key).Logger()
	run.advance(domain.IngestClassified)

	processedPath, err := s.optimizer.Optimize(ctx, stagedPath)
	if processedPath != "" {
		stage.Track(processedPath)
	}
	if err != nil {
		return nil, run.fail(err)
	}
	run.advance(domain.IngestOptimized)

	ref, err := s.relocator.Upload(ctx, processedPath, key, input.ContentType)
	if err != nil {
		return nil, run.fail(err)
	}
	run.advance(domain.IngestUploaded)

	video.VideoURL = &ref
	if err := s.videoRepo.Update(ctx, video); err != nil {
		video.VideoURL = nil
		// The object is unreachable without a record pointing at it.
		if rmErr := s.relocator.Remove(context.WithoutCancel(ctx), ref); rmErr != nil {
			run.log.Error().Err(rmErr).Str("ref", ref).Msg("videoService.Ingest: orphaned object not removed")
		}
		return nil, run.fail(fmt.Errorf("updating video: %w", err))
	}
	run.advance(domain.IngestRecorded)
	run.done()

	return s.Resolve(ctx, video)
}

func (s *videoService) GetByID(ctx context.Context, videoID uuid.UUID) (*domain.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, video)
}

func (s *videoService) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Video, int, error) {
	videos, total, err := s.videoRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	resolved := make([]domain.Video, 0, len(videos))
	for i := range videos {
		v, err := s.Resolve(ctx, &videos[i])
		if err != nil {
			return nil, 0, err
		}
		resolved = append(resolved, *v)
	}
	return resolved, total, nil
}

// Resolve returns a copy of video whose storage reference is replaced by a
// presigned URL. The stored record is not modified.
func (s *videoService) Resolve(ctx context.Context, video *domain.Video) (*domain.Video, error) {
	if !video.HasStorageRef() {
		return video, nil
	}
	signed, err := s.relocator.Presign(ctx, *video.VideoURL, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presigning video %s: %w", video.ID, err)
	}
	resolved := *video
	resolved.VideoURL = &signed
	return &resolved, nil
}

// validate checks the declared upload shape and returns the container
// extension to stage under.
func (s *videoService) validate(input IngestInput) (string, error) {
	if input.Body == nil {
		return "", domain.ErrEmptyUpload
	}
	mediaType, _, err := mime.ParseMediaType(input.ContentType)
	if err != nil {
		return "", domain.ErrUnsupportedFileType
	}
	ext, ok := domain.AllowedVideoContentTypes[mediaType]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if input.Size > s.cfg.MaxUploadBytes {
		return "", domain.ErrFileTooLarge
	}
	return ext, nil
}

// storageKey builds "{aspect}/{32 hex chars}.{ext}".
func storageKey(aspect domain.AspectRatio, ext string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating storage key: %w", err)
	}
	return fmt.Sprintf("%s/%s.%s", aspect, hex.EncodeToString(buf), ext), nil
}

// ingestRun tracks the state of one Ingest call for logging.
type ingestRun struct {
	state domain.IngestState
	start time.Time
	log   zerolog.Logger
}

func newIngestRun(log zerolog.Logger, input IngestInput) *ingestRun {
	return &ingestRun{
		start: time.Now(),
		log: log.With().
			Str("video_id", input.VideoID.String()).
			Str("user_id", input.UserID.String()).
			Logger(),
	}
}

func (r *ingestRun) advance(state domain.IngestState) {
	r.state = state
	r.log.Debug().Str("state", string(state)).Msg("videoService.Ingest: state changed")
}

func (r *ingestRun) done() {
	r.log.Info().Dur("elapsed", time.Since(r.start)).Msg("videoService.Ingest: video ingested")
}

func (r *ingestRun) fail(err error) error {
	event := r.log.Error()
	if isClientError(err) {
		event = r.log.Warn()
	}
	event.Err(err).
		Str("last_state", string(r.state)).
		Dur("elapsed", time.Since(r.start)).
		Msg("videoService.Ingest: run failed")
	r.state = domain.IngestFailed
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbidden)
}
