package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmptyInput    = errors.New("empty input")
	ErrInvalidParams = errors.New("invalid generation parameters")
	ErrDisabled      = errors.New("summarizer disabled")
)

// Bounds accepted from the UI sliders.
const (
	MinBeams     = 2
	MaxBeams     = 6
	MinMaxLength = 10
	MaxMaxLength = 50
)

// EmptyInputStatus is shown instead of a timing line when there is nothing to summarize.
const EmptyInputStatus = "Did not run"

// Params are forwarded to the model as-is.
type Params struct {
	MaxLength int
	Beams     int
}

func (p Params) Validate() error {
	if p.Beams < MinBeams || p.Beams > MaxBeams {
		return fmt.Errorf("%w: beams %d not in [%d,%d]", ErrInvalidParams, p.Beams, MinBeams, MaxBeams)
	}
	if p.MaxLength < MinMaxLength || p.MaxLength > MaxMaxLength {
		return fmt.Errorf("%w: max_length %d not in [%d,%d]", ErrInvalidParams, p.MaxLength, MinMaxLength, MaxMaxLength)
	}
	return nil
}

// Backend is the model that does the actual summarization.
type Backend interface {
	Summarize(ctx context.Context, text string, p Params) (string, error)
	// Device names where the model runs, for the status line.
	Device() string
}

type Result struct {
	Summary string
	Status  string
	Elapsed time.Duration
}

type Service struct {
	backend Backend
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wraps backend. A nil backend yields a service whose every call
// fails with ErrDisabled.
func NewService(backend Backend, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, timeout: timeout, logger: logger, now: time.Now}
}

func (s *Service) Enabled() bool { return s != nil && s.backend != nil }

// Summarize checks the input, calls the backend and reports how long it took.
// Blank text returns ErrEmptyInput together with a Result carrying
// EmptyInputStatus, so callers can show the status without treating it as a failure.
func (s *Service) Summarize(ctx context.Context, text string, p Params) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Status: EmptyInputStatus}, ErrEmptyInput
	}
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if !s.Enabled() {
		return Result{}, ErrDisabled
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	t0 := s.now()
	summary, err := s.backend.Summarize(ctx, text, p)
	elapsed := s.now().Sub(t0)
	if err != nil {
		s.logger.Error("summarize failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return Result{}, fmt.Errorf("summarize: %w", err)
	}

	s.logger.Debug("summarized",
		zap.Int("input_chars", len(text)),
		zap.Int("max_length", p.MaxLength),
		zap.Int("beams", p.Beams),
		zap.Duration("elapsed", elapsed),
	)
	return Result{
		Summary: summary,
		Status:  StatusLine(s.backend.Device(), elapsed),
		Elapsed: elapsed,
	}, nil
}

// StatusLine formats the elapsed-time message shown under the summary.
func StatusLine(device string, elapsed time.Duration) string {
	return fmt.Sprintf("Summarized on %s in %.2fs", device, elapsed.Seconds())
}
