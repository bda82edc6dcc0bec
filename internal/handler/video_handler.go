package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tubely/internal/domain"
	"tubely/internal/middleware"
	"tubely/internal/service"
)

// VideoFormField is the multipart field carrying the upload.
const VideoFormField = "video"

// multipartOverhead is the allowance for boundaries and part headers when
// comparing a request's Content-Length against the upload limit.
const multipartOverhead = 1 << 20

var errMissingVideoPart = errors.New("video part not found")

// VideoHandler handles video endpoints.
type VideoHandler struct {
	videoService   service.VideoService
	maxUploadBytes int64
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(videoService service.VideoService, maxUploadBytes int64) *VideoHandler {
	return &VideoHandler{videoService: videoService, maxUploadBytes: maxUploadBytes}
}

type createVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/videos
func (h *VideoHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "title is required")
		return
	}

	video, err := h.videoService.Create(c.Request.Context(), service.VideoCreateInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, video)
}

// Upload handles POST /api/v1/videos/:videoID/upload
// The "video" part is streamed straight into the ingestion pipeline.
func (h *VideoHandler) Upload(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	videoID, err := uuid.Parse(c.Param("videoID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid video ID")
		return
	}

	if c.Request.ContentLength > h.maxUploadBytes+multipartOverhead {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	part, err := videoPart(c.Request)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "video field is required")
		return
	}
	defer func() { _ = part.Close() }()

	video, err := h.videoService.Ingest(c.Request.Context(), service.IngestInput{
		VideoID:     videoID,
		UserID:      userID,
		Body:        part,
		ContentType: part.Header.Get("Content-Type"),
		Size:        -1,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, video)
}

// GetByID handles GET /api/v1/videos/:videoID
func (h *VideoHandler) GetByID(c *gin.Context) {
	if _, err := middleware.GetUserID(c); err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	videoID, err := uuid.Parse(c.Param("videoID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid video ID")
		return
	}

	video, err := h.videoService.GetByID(c.Request.Context(), videoID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, video)
}

// List handles GET /api/v1/videos
func (h *VideoHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	videos, total, err := h.videoService.ListByUser(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, videos, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// videoPart advances the multipart stream to the video field. Parts before
// it are discarded.
func videoPart(r *http.Request) (*multipart.Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errMissingVideoPart
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == VideoFormField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}
