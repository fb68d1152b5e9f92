package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeBackend struct {
	calls []Params
	err   error
}

func (f *fakeBackend) Device() string { return "cpu" }

func (f *fakeBackend) Summarize(ctx context.Context, text string, p Params) (string, error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return "", f.err
	}
	return "short: " + strings.Fields(text)[0], nil
}

// stepClock advances by step on every read.
func stepClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func newTestService(t *testing.T, b Backend) *Service {
	s := NewService(b, time.Second, zaptest.NewLogger(t))
	s.now = stepClock(1234 * time.Millisecond)
	return s
}

func TestSummarize(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(t, fb)

	res, err := s.Summarize(context.Background(), "Gophers summarize things quickly.", Params{MaxLength: 30, Beams: 4})
	require.NoError(t, err)

	assert.Equal(t, "short: Gophers", res.Summary)
	assert.Equal(t, "Summarized on cpu in 1.23s", res.Status)
	assert.Equal(t, 1234*time.Millisecond, res.Elapsed)
	// Parameters forwarded verbatim
	assert.Equal(t, []Params{{MaxLength: 30, Beams: 4}}, fb.calls)
}

func TestSummarizeEmptyInput(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(t, fb)

	for _, in := range []string{"", "   ", "\n\t"} {
		res, err := s.Summarize(context.Background(), in, Params{MaxLength: 30, Beams: 4})
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.Empty(t, res.Summary)
		assert.Equal(t, "Did not run", res.Status)
	}
	assert.Empty(t, fb.calls, "backend must not be called for blank text")
}

func TestSummarizeParamBounds(t *testing.T) {
	tests := []struct {
		p  Params
		ok bool
	}{
		{Params{MaxLength: 10, Beams: 2}, true},
		{Params{MaxLength: 50, Beams: 6}, true},
		{Params{MaxLength: 9, Beams: 4}, false},
		{Params{MaxLength: 51, Beams: 4}, false},
		{Params{MaxLength: 30, Beams: 1}, false},
		{Params{MaxLength: 30, Beams: 7}, false},
	}
	for _, tt := range tests {
		err := tt.p.Validate()
		if tt.ok {
			assert.NoError(t, err, "%+v", tt.p)
		} else {
			assert.ErrorIs(t, err, ErrInvalidParams, "%+v", tt.p)
		}
	}
}

func TestSummarizeBackendError(t *testing.T) {
	boom := errors.New("model unavailable")
	s := newTestService(t, &fakeBackend{err: boom})

	_, err := s.Summarize(context.Background(), "some text", Params{MaxLength: 20, Beams: 2})
	assert.ErrorIs(t, err, boom)
}

func TestSummarizeDisabled(t *testing.T) {
	s := NewService(nil, 0, nil)
	assert.False(t, s.Enabled())

	_, err := s.Summarize(context.Background(), "some text", Params{MaxLength: 20, Beams: 2})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "Summarized on cuda in 0.50s", StatusLine("cuda", 500*time.Millisecond))
}

func TestNewGenAIBackendRequiresKey(t *testing.T) {
	_, err := NewGenAIBackend(context.Background(), "", "")
	assert.Error(t, err)
}
