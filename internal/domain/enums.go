package domain

import (
	"fmt"
	"strings"
)

// AspectRatio classifies the frame geometry of a video.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "landscape"
	AspectPortrait  AspectRatio = "portrait"
	AspectOther     AspectRatio = "other"
)

// ContentTypeMP4 is the only container type accepted for ingestion.
const ContentTypeMP4 = "video/mp4"

// AllowedVideoContentTypes maps accepted MIME content types to their file extension.
var AllowedVideoContentTypes = map[string]string{
	ContentTypeMP4: "mp4",
}

// IngestState is a step of a single ingestion run.
type IngestState string

const (
	IngestValidated  IngestState = "validated"
	IngestAuthorized IngestState = "authorized"
	IngestStaged     IngestState = "staged"
	IngestClassified IngestState = "classified"
	IngestOptimized  IngestState = "optimized"
	IngestUploaded   IngestState = "uploaded"
	IngestRecorded   IngestState = "recorded"
	IngestFailed     IngestState = "failed"
)

// NewStorageRef builds the persisted storage reference for an object.
func NewStorageRef(bucket, key string) string {
	return bucket + "," + key
}

// ParseStorageRef splits a storage reference into bucket and key.
func ParseStorageRef(ref string) (bucket, key string, err error) {
	bucket, key, ok := strings.Cut(ref, ",")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidStorageRef, ref)
	}
	return bucket, key, nil
}
