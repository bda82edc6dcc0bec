package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Video is the asset record for one uploaded media item.
// VideoURL holds the storage reference ("bucket,key") once an upload has
// completed, and is nil before that.
type Video struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	VideoURL    *string   `db:"video_url" json:"video_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HasStorageRef reports whether the video has been relocated to object storage.
func (v *Video) HasStorageRef() bool {
	return v.VideoURL != nil && *v.VideoURL != ""
}

// Geometry is the frame size of a video's first video stream.
type Geometry struct {
	Width  int
	Height int
}

// Aspect classifies the geometry as landscape (16:9), portrait (9:16) or other.
func (g Geometry) Aspect() AspectRatio {
	if g.Width <= 0 || g.Height <= 0 {
		return AspectOther
	}
	ratio := float64(g.Width) / float64(g.Height)
	switch {
	case math.Abs(ratio-16.0/9.0) < aspectTolerance:
		return AspectLandscape
	case math.Abs(ratio-9.0/16.0) < aspectTolerance:
		return AspectPortrait
	default:
		return AspectOther
	}
}

const aspectTolerance = 0.1
