package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tubely/internal/domain"
	"tubely/internal/logger"
)

const defaultFFprobe = "ffprobe"

// probeOutput mirrors the subset of ffprobe's JSON we request. Pointer fields
// distinguish a missing value from zero.
type probeOutput struct {
	Streams []struct {
		Width  *int `json:"width"`
		Height *int `json:"height"`
	} `json:"streams"`
}

// Prober reads frame geometry with ffprobe.
type Prober struct {
	binary  string
	timeout time.Duration
	runner  *Runner
	log     zerolog.Logger
}

// NewProber creates a Prober. A zero timeout disables the per-call deadline.
func NewProber(binary string, timeout time.Duration, runner *Runner) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultFFprobe
	}
	return &Prober{
		binary:  binary,
		timeout: timeout,
		runner:  runner,
		log:     logger.Component("ffprobe"),
	}
}

// Probe returns the width and height of the first video stream in path.
func (p *Prober) Probe(ctx context.Context, path string) (domain.Geometry, error) {
	stdout, stderr, code, err := p.runner.Run(ctx, p.timeout, p.binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		path,
	)
	if err != nil {
		p.log.Error().
			Str("path", path).
			Int("exit_code", code).
			Str("stderr", strings.TrimSpace(string(stderr))).
			Err(err).
			Msg("prober.Probe: ffprobe failed")
		return domain.Geometry{}, &domain.ToolError{
			Kind:     domain.ErrProbeFailed,
			Tool:     p.binary,
			ExitCode: code,
			Stderr:   string(stderr),
			Err:      err,
		}
	}

	return parseGeometry(stdout)
}

func parseGeometry(raw []byte) (domain.Geometry, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.Geometry{}, fmt.Errorf("%w: decoding ffprobe output: %v", domain.ErrInvalidMediaMeta, err)
	}
	if len(out.Streams) == 0 {
		return domain.Geometry{}, fmt.Errorf("%w: no video stream", domain.ErrInvalidMediaMeta)
	}
	stream := out.Streams[0]
	if stream.Width == nil || stream.Height == nil {
		return domain.Geometry{}, fmt.Errorf("%w: missing width or height", domain.ErrInvalidMediaMeta)
	}
	if *stream.Width <= 0 || *stream.Height <= 0 {
		return domain.Geometry{}, fmt.Errorf("%w: invalid dimensions %dx%d",
			domain.ErrInvalidMediaMeta, *stream.Width, *stream.Height)
	}
	return domain.Geometry{Width: *stream.Width, Height: *stream.Height}, nil
}
