// Package filesink provides a display sink that saves each shown frame as
// a PNG snapshot.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/user/gifplay/pkg/adapters/logger"
	"github.com/user/gifplay/pkg/ports"
)

// Sink writes every displayed image to baseDir as frame-NNNNN.png, numbered
// in display order.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
	logger   ports.Logger
	maxWidth int

	mu      sync.Mutex
	written int
	clears  int
	err     error
}

// Option configures a Sink.
type Option func(*Sink)

// WithMaxWidth downscales snapshots wider than width, keeping aspect ratio.
func WithMaxWidth(width int) Option {
	return func(s *Sink) {
		s.maxWidth = width
	}
}

// WithLogger sets the logger used for write failures.
func WithLogger(l ports.Logger) Option {
	return func(s *Sink) {
		s.logger = l.WithComponent("filesink")
	}
}

// New creates a new Sink writing into baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer, opts ...Option) *Sink {
	s := &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
		logger:   logger.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Display saves img. A nil img is counted as a clear and writes nothing.
// Failures are logged and remembered; see Err.
func (s *Sink) Display(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img == nil {
		s.clears++
		return
	}

	path := filepath.Join(s.baseDir, fmt.Sprintf("frame-%05d.png", s.written))
	if err := s.save(path, img); err != nil {
		s.logger.Warn("Cannot write frame snapshot: %s", err)
		if s.err == nil {
			s.err = err
		}
		return
	}
	s.written++
	s.logger.Debug("Wrote frame snapshot %s", path)
}

func (s *Sink) save(path string, img image.Image) error {
	if b := img.Bounds(); s.maxWidth > 0 && b.Dx() > s.maxWidth {
		height := b.Dy() * s.maxWidth / b.Dx()
		if height < 1 {
			height = 1
		}
		img = s.renderer.ResizeImage(img, s.maxWidth, height)
	}

	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.fs.WriteFile(path, data)
}

// Written returns the number of snapshots saved.
func (s *Sink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Clears returns the number of clear requests received.
func (s *Sink) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// Err returns the first write failure, if any.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Ensure Sink implements ports.DisplaySink
var _ ports.DisplaySink = (*Sink)(nil)
