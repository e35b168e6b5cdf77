package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"voice-actuator/audio_capture"
	"voice-actuator/failure"
	"voice-actuator/metrics"
	"voice-actuator/recording_session"
)

type fakeSession struct {
	starts    int
	stops     int
	discarded []*recording_session.Recording
	startErr  error
	stopErr   error
	state     recording_session.State
}

func (s *fakeSession) Start() error {
	s.starts++
	if s.startErr != nil {
		return s.startErr
	}
	s.state = recording_session.Armed
	return nil
}

func (s *fakeSession) Stop() (*recording_session.Recording, error) {
	if s.state != recording_session.Armed {
		return nil, nil
	}
	s.stops++
	s.state = recording_session.Idle
	if s.stopErr != nil {
		return nil, s.stopErr
	}
	return &recording_session.Recording{
		Name:   "input_1.wav",
		Path:   "/tmp/input_1.wav",
		Format: audio_capture.DefaultFormat,
		Frames: []audio_capture.Frame{make(audio_capture.Frame, 48000)},
	}, nil
}

func (s *fakeSession) State() recording_session.State { return s.state }

func (s *fakeSession) Discard(rec *recording_session.Recording) error {
	if rec != nil {
		s.discarded = append(s.discarded, rec)
	}
	return nil
}

func (s *fakeSession) Cleanup() error { return nil }

type fakeSTT struct {
	texts []string
	err   error
	calls int
	path  string
}

func (f *fakeSTT) Transcribe(ctx context.Context, wavFilename string) (string, error) {
	f.calls++
	f.path = wavFilename
	if f.err != nil {
		return "", f.err
	}
	text := f.texts[0]
	if len(f.texts) > 1 {
		f.texts = f.texts[1:]
	}
	return text, nil
}

type fakeLink struct {
	writes []string
	closed bool
	err    error
}

func (l *fakeLink) Write(b []byte) error {
	if l.closed {
		return failure.New(failure.ErrLinkClosed, "closed")
	}
	if l.err != nil {
		return l.err
	}
	l.writes = append(l.writes, string(b))
	return nil
}

func (l *fakeLink) IsOpen() bool  { return !l.closed }
func (l *fakeLink) Close() error { l.closed = true; return nil }

type waits struct {
	durations []time.Duration
}

func (w *waits) wait(ctx context.Context, d time.Duration) error {
	w.durations = append(w.durations, d)
	return ctx.Err()
}

type fixture struct {
	session *fakeSession
	stt     *fakeSTT
	link    *fakeLink
	waits   *waits
	metrics *metrics.Metrics
	orch    Interface
}

func newFixture(t *testing.T, texts ...string) *fixture {
	t.Helper()

	f := &fixture{
		session: &fakeSession{},
		stt:     &fakeSTT{texts: texts},
		link:    &fakeLink{},
		waits:   &waits{},
		metrics: metrics.New(prometheus.NewRegistry()),
	}

	orch, err := New(&Config{
		Session:      f.session,
		STTEngine:    f.stt,
		Link:         f.link,
		Metrics:      f.metrics,
		RecordWindow: 3 * time.Second,
		SettleTime:   5 * time.Second,
		Wait:         f.waits.wait,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f.orch = orch
	return f
}

func TestNew(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Errorf("expected error for nil config")
	}

	if _, err := New(&Config{STTEngine: &fakeSTT{}, Link: &fakeLink{}}); err == nil {
		t.Errorf("expected error for nil session")
	}

	if _, err := New(&Config{Session: &fakeSession{}, Link: &fakeLink{}}); err == nil {
		t.Errorf("expected error for nil sttEngine")
	}

	if _, err := New(&Config{Session: &fakeSession{}, STTEngine: &fakeSTT{}}); err == nil {
		t.Errorf("expected error for nil link")
	}
}

func TestRunCycle(t *testing.T) {
	t.Run("right command is dispatched then the actuator settles", func(t *testing.T) {
		f := newFixture(t, "오른쪽으로 45도 돌려주세요")

		if err := f.orch.RunCycle(context.Background()); err != nil {
			t.Fatalf("RunCycle: %v", err)
		}

		if len(f.link.writes) != 1 || f.link.writes[0] != "1045" {
			t.Errorf("expected 1045, got %v", f.link.writes)
		}

		expected := []time.Duration{3 * time.Second, 5 * time.Second}
		if len(f.waits.durations) != 2 || f.waits.durations[0] != expected[0] || f.waits.durations[1] != expected[1] {
			t.Errorf("expected waits %v, got %v", expected, f.waits.durations)
		}

		if f.stt.path != "/tmp/input_1.wav" {
			t.Errorf("unexpected transcribed file %s", f.stt.path)
		}

		if len(f.session.discarded) != 1 {
			t.Errorf("expected the recording to be discarded")
		}

		if v := testutil.ToFloat64(f.metrics.CommandsSent.WithLabelValues("right")); v != 1 {
			t.Errorf("expected one right command, got %f", v)
		}
	})

	t.Run("left command", func(t *testing.T) {
		f := newFixture(t, "왼쪽으로 120도")

		if err := f.orch.RunCycle(context.Background()); err != nil {
			t.Fatalf("RunCycle: %v", err)
		}

		if len(f.link.writes) != 1 || f.link.writes[0] != "2120" {
			t.Errorf("expected 2120, got %v", f.link.writes)
		}
	})

	t.Run("unrecognized speech leaves the link untouched and skips settling", func(t *testing.T) {
		f := newFixture(t, "앞으로 가주세요")

		err := f.orch.RunCycle(context.Background())
		if !errors.Is(err, failure.ErrUnrecognizedSpeech) {
			t.Errorf("expected ErrUnrecognizedSpeech, got %v", err)
		}

		if len(f.link.writes) != 0 {
			t.Errorf("expected no dispatch, got %v", f.link.writes)
		}

		if len(f.waits.durations) != 1 {
			t.Errorf("expected only the record window wait, got %v", f.waits.durations)
		}

		if v := testutil.ToFloat64(f.metrics.CycleFailures.WithLabelValues("UNRECOGNIZED_SPEECH")); v != 1 {
			t.Errorf("expected one unrecognized failure, got %f", v)
		}

		if len(f.session.discarded) != 1 {
			t.Errorf("expected the recording to be discarded")
		}
	})

	t.Run("direction without angle is not dispatched", func(t *testing.T) {
		f := newFixture(t, "오른쪽으로 돌려주세요")

		err := f.orch.RunCycle(context.Background())
		if !errors.Is(err, failure.ErrUnrecognizedSpeech) {
			t.Errorf("expected ErrUnrecognizedSpeech, got %v", err)
		}

		if len(f.link.writes) != 0 {
			t.Errorf("expected no dispatch, got %v", f.link.writes)
		}
	})

	t.Run("out of range angle is an encoding error with no dispatch", func(t *testing.T) {
		f := newFixture(t, "왼쪽으로 1000도")

		err := f.orch.RunCycle(context.Background())
		if !errors.Is(err, failure.ErrEncoding) {
			t.Errorf("expected ErrEncoding, got %v", err)
		}

		if len(f.link.writes) != 0 {
			t.Errorf("expected no dispatch, got %v", f.link.writes)
		}
	})

	t.Run("transcription failure ends the cycle", func(t *testing.T) {
		f := newFixture(t)
		f.stt.err = failure.New(failure.ErrTranscription, "network down")

		err := f.orch.RunCycle(context.Background())
		if !errors.Is(err, failure.ErrTranscription) {
			t.Errorf("expected ErrTranscription, got %v", err)
		}

		if len(f.link.writes) != 0 {
			t.Errorf("expected no dispatch")
		}
	})

	t.Run("closed link is reported", func(t *testing.T) {
		f := newFixture(t, "우회전 10도")
		f.link.Close()

		err := f.orch.RunCycle(context.Background())
		if !errors.Is(err, failure.ErrLinkClosed) {
			t.Errorf("expected ErrLinkClosed, got %v", err)
		}
	})

	t.Run("microphone failure is fatal", func(t *testing.T) {
		f := newFixture(t, "왼쪽으로 1도")
		f.session.startErr = failure.New(failure.ErrDeviceOpen, "no microphone")

		err := f.orch.RunCycle(context.Background())
		if !failure.Fatal(err) {
			t.Errorf("expected a fatal error, got %v", err)
		}

		if f.stt.calls != 0 {
			t.Errorf("expected no transcription")
		}
	})

	t.Run("cancelled record window still stops the session", func(t *testing.T) {
		f := newFixture(t, "왼쪽으로 1도")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := f.orch.RunCycle(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}

		if f.session.stops != 1 || f.session.state != recording_session.Idle {
			t.Errorf("expected the session to be stopped")
		}

		if f.stt.calls != 0 {
			t.Errorf("expected no transcription")
		}
	})

	t.Run("same transcript gives the same command on every cycle", func(t *testing.T) {
		f := newFixture(t, "오른쪽으로 90도", "왼쪽으로 5도", "오른쪽으로 90도")

		for i := 0; i < 3; i++ {
			if err := f.orch.RunCycle(context.Background()); err != nil {
				t.Fatalf("cycle %d: %v", i, err)
			}
		}

		if f.link.writes[0] != "1090" || f.link.writes[1] != "2005" || f.link.writes[2] != "1090" {
			t.Errorf("unexpected writes %v", f.link.writes)
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("recoverable failures do not stop the loop", func(t *testing.T) {
		f := newFixture(t, "앞으로", "오른쪽으로 45도")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		f.orch.(*orchestratorImpl).wait = func(ctx context.Context, d time.Duration) error {
			if d == 5*time.Second {
				cancel()
			}
			return ctx.Err()
		}

		if err := f.orch.Run(ctx); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if len(f.link.writes) != 1 || f.link.writes[0] != "1045" {
			t.Errorf("expected one dispatch after the unrecognized cycle, got %v", f.link.writes)
		}

		if f.session.starts != 2 {
			t.Errorf("expected two cycles, got %d", f.session.starts)
		}
	})

	t.Run("device open failure ends the loop", func(t *testing.T) {
		f := newFixture(t, "왼쪽으로 1도")
		f.session.startErr = failure.New(failure.ErrDeviceOpen, "no microphone")

		err := f.orch.Run(context.Background())
		if !errors.Is(err, failure.ErrDeviceOpen) {
			t.Errorf("expected ErrDeviceOpen, got %v", err)
		}
	})
}

func TestSleep(t *testing.T) {
	if err := sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
