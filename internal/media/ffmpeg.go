package media

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tubely/internal/domain"
	"tubely/internal/logger"
)

const (
	defaultFFmpeg = "ffmpeg"

	// ProcessedSuffix is appended to a staged path to name the optimizer output.
	ProcessedSuffix = ".processing.mp4"
)

// Optimizer remuxes videos for fast start with ffmpeg. Audio and video
// payloads are stream-copied and global metadata is kept.
type Optimizer struct {
	binary  string
	timeout time.Duration
	runner  *Runner
	log     zerolog.Logger
}

// NewOptimizer creates an Optimizer. A zero timeout disables the per-call deadline.
func NewOptimizer(binary string, timeout time.Duration, runner *Runner) *Optimizer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultFFmpeg
	}
	return &Optimizer{
		binary:  binary,
		timeout: timeout,
		runner:  runner,
		log:     logger.Component("ffmpeg"),
	}
}

// OutputPath returns the path Optimize writes for inputPath.
func OutputPath(inputPath string) string {
	return inputPath + ProcessedSuffix
}

// Optimize writes a fast-start copy of inputPath and returns its path. The
// output path is returned on failure too, since ffmpeg may have left a
// partial file behind.
func (o *Optimizer) Optimize(ctx context.Context, inputPath string) (string, error) {
	outputPath := OutputPath(inputPath)

	start := time.Now()
	_, stderr, code, err := o.runner.Run(ctx, o.timeout, o.binary,
		"-v", "error",
		"-y",
		"-i", inputPath,
		"-movflags", "faststart",
		"-map_metadata", "0",
		"-codec", "copy",
		"-f", "mp4",
		outputPath,
	)
	if err != nil {
		o.log.Error().
			Str("path", inputPath).
			Int("exit_code", code).
			Str("stderr", strings.TrimSpace(string(stderr))).
			Err(err).
			Msg("optimizer.Optimize: ffmpeg failed")
		return outputPath, &domain.ToolError{
			Kind:     domain.ErrOptimizationFailed,
			Tool:     o.binary,
			ExitCode: code,
			Stderr:   string(stderr),
			Err:      err,
		}
	}

	o.log.Debug().
		Str("path", outputPath).
		Dur("elapsed", time.Since(start)).
		Msg("optimizer.Optimize: fast-start remux complete")
	return outputPath, nil
}
