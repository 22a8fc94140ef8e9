package services

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"ice-extent/internal/archive"
	"ice-extent/internal/logger"
	"ice-extent/internal/models"

	"golang.org/x/image/draw"
	"golang.org/x/sync/semaphore"
)

// Fetcher retrieves raw archive bytes for a request
type Fetcher interface {
	Fetch(ctx context.Context, req models.ImageRequest) ([]byte, error)
}

// LoadStats summarises archive loads since start
type LoadStats struct {
	Loaded      int
	Failed      int
	AverageTime time.Duration
}

// ImageService turns archive requests into panel-sized bitmaps. Only one
// archive fetch is in flight at any time.
type ImageService struct {
	fetcher Fetcher
	logger  logger.Logger
	gate    *semaphore.Weighted
	width   int
	height  int

	mu        sync.Mutex
	loaded    int
	failed    int
	totalTime time.Duration
}

// NewImageService creates a service that fits frames into width x height
func NewImageService(fetcher Fetcher, log logger.Logger, width, height int) *ImageService {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &ImageService{
		fetcher: fetcher,
		logger:  log,
		gate:    semaphore.NewWeighted(1),
		width:   width,
		height:  height,
	}
}

// Load fetches, decodes and scales one frame. The returned bitmap is newly
// allocated and belongs to the caller.
func (s *ImageService) Load(ctx context.Context, req models.ImageRequest) (image.Image, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for archive: %w", err)
	}
	defer s.gate.Release(1)

	start := time.Now()
	img, err := s.load(ctx, req)
	s.record(time.Since(start), err)

	if err != nil {
		return nil, err
	}

	s.logger.Debug("ImageService", "frame ready", map[string]interface{}{
		"request":     req.String(),
		"source_size": img.Bounds().Size().String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return Fit(img, s.width, s.height), nil
}

func (s *ImageService) load(ctx context.Context, req models.ImageRequest) (image.Image, error) {
	data, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	img, err := archive.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.FileName(), err)
	}
	return img, nil
}

func (s *ImageService) record(elapsed time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.failed++
		return
	}
	s.loaded++
	s.totalTime += elapsed
}

// Stats returns load counters
func (s *ImageService) Stats() LoadStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := LoadStats{Loaded: s.loaded, Failed: s.failed}
	if s.loaded > 0 {
		stats.AverageTime = s.totalTime / time.Duration(s.loaded)
	}
	return stats
}

// Fit scales img to fit within maxWidth x maxHeight keeping its aspect ratio.
// Smaller images keep their size. The result is always a fresh RGBA copy.
func Fit(img image.Image, maxWidth, maxHeight int) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if maxWidth > 0 && maxHeight > 0 && (width > maxWidth || height > maxHeight) {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = max(1, int(float64(maxHeight)*ratio))
			height = maxHeight
		} else {
			height = max(1, int(float64(maxWidth)/ratio))
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
