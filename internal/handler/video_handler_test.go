package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tubely/internal/domain"
	"tubely/internal/handler"
	"tubely/internal/middleware"
	"tubely/internal/service"
	"tubely/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testMaxUpload = 1 << 20

func setAuthContext(c *gin.Context, userID uuid.UUID) {
	c.Set(middleware.ContextKeyUserID, userID)
}

// videoForm builds a multipart body with a leading title field and a video
// part of the given content type.
func videoForm(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "ignored"))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="boots.mp4"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadContext(t *testing.T, videoID string, body io.Reader, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/videos/"+videoID+"/upload", body)
	c.Request.Header.Set("Content-Type", contentType)
	c.Params = gin.Params{{Key: "videoID", Value: videoID}}
	return c, w
}

func TestVideoHandler_Upload_Success(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)

	userID := uuid.New()
	videoID := uuid.New()
	signed := "https://signed.example/landscape/abc.mp4"

	var received []byte
	mockSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(in service.IngestInput) bool {
		return in.VideoID == videoID && in.UserID == userID && in.ContentType == "video/mp4" && in.Size == -1
	})).
		Run(func(args mock.Arguments) {
			in := args.Get(1).(service.IngestInput)
			received, _ = io.ReadAll(in.Body)
		}).
		Return(&domain.Video{ID: videoID, UserID: userID, VideoURL: &signed}, nil)

	body, ct := videoForm(t, "video", "video/mp4", []byte("mp4-bytes"))
	c, w := uploadContext(t, videoID.String(), body, ct)
	setAuthContext(c, userID)

	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mp4-bytes", string(received))

	var resp struct {
		Success bool         `json:"success"`
		Data    domain.Video `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.VideoURL)
	assert.Equal(t, signed, *resp.Data.VideoURL)
	mockSvc.AssertExpectations(t)
}

func TestVideoHandler_Upload_NoAuthContext(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)

	c, w := uploadContext(t, uuid.NewString(), http.NoBody, "multipart/form-data")

	h.Upload(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVideoHandler_Upload_InvalidID(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)

	c, w := uploadContext(t, "not-a-uuid", http.NoBody, "multipart/form-data")
	setAuthContext(c, uuid.New())

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestVideoHandler_Upload_MissingField(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)

	body, ct := videoForm(t, "thumbnail", "video/mp4", []byte("data"))
	c, w := uploadContext(t, uuid.NewString(), body, ct)
	setAuthContext(c, uuid.New())

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FILE")
	mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestVideoHandler_Upload_NotMultipart(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)

	c, w := uploadContext(t, uuid.NewString(), strings.NewReader("raw"), "video/mp4")
	setAuthContext(c, uuid.New())

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVideoHandler_Upload_DeclaredLengthTooLarge(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, 4)

	body, ct := videoForm(t, "video", "video/mp4", bytes.Repeat([]byte("x"), 2<<20))
	c, w := uploadContext(t, uuid.NewString(), body, ct)
	setAuthContext(c, uuid.New())

	h.Upload(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestVideoHandler_Upload_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrong type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"corrupt", &domain.ToolError{Kind: domain.ErrProbeFailed, Tool: "ffprobe", ExitCode: 1, Stderr: "moov atom not found"}, http.StatusInternalServerError, "PROBE_FAILED"},
		{"upload", domain.ErrRelocationFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockVideoService)
			h := handler.NewVideoHandler(mockSvc, testMaxUpload)
			mockSvc.On("Ingest", mock.Anything, mock.AnythingOfType("service.IngestInput")).Return(nil, tt.err)

			body, ct := videoForm(t, "video", "video/quicktime", []byte("data"))
			c, w := uploadContext(t, uuid.NewString(), body, ct)
			setAuthContext(c, uuid.New())

			h.Upload(c)

			assert.Equal(t, tt.status, w.Code)
			var resp handler.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotContains(t, w.Body.String(), "moov atom")
		})
	}
}

func TestVideoHandler_Create(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)
	userID := uuid.New()

	mockSvc.On("Create", mock.Anything, service.VideoCreateInput{UserID: userID, Title: "boots", Description: "demo"}).
		Return(&domain.Video{ID: uuid.New(), UserID: userID, Title: "boots"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/videos", strings.NewReader(`{"title":"boots","description":"demo"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, userID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestVideoHandler_Create_MissingTitle(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/videos", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVideoHandler_GetByID(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)
	videoID := uuid.New()

	mockSvc.On("GetByID", mock.Anything, videoID).Return(&domain.Video{ID: videoID}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID.String(), http.NoBody)
	c.Params = gin.Params{{Key: "videoID", Value: videoID.String()}}
	setAuthContext(c, uuid.New())

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestVideoHandler_GetByID_InternalErrorIsGeneric(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)
	videoID := uuid.New()

	mockSvc.On("GetByID", mock.Anything, videoID).Return(nil, errors.New("pq: connection refused to 10.0.0.5"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID.String(), http.NoBody)
	c.Params = gin.Params{{Key: "videoID", Value: videoID.String()}}
	setAuthContext(c, uuid.New())

	h.GetByID(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestVideoHandler_List(t *testing.T) {
	mockSvc := new(mocks.MockVideoService)
	h := handler.NewVideoHandler(mockSvc, testMaxUpload)
	userID := uuid.New()

	videos := []domain.Video{{ID: uuid.New(), UserID: userID}}
	mockSvc.On("ListByUser", mock.Anything, userID, 0, 20).Return(videos, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/videos?offset=-3&limit=500", http.NoBody)
	setAuthContext(c, userID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
	mockSvc.AssertExpectations(t)
}
