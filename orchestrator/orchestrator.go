package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"voice-actuator/actuator"
	"voice-actuator/command"
	"voice-actuator/failure"
	"voice-actuator/metrics"
	"voice-actuator/recording_session"
	"voice-actuator/speech_to_text"
)

const (
	DefaultRecordWindow = 3 * time.Second
	DefaultSettleTime   = 5 * time.Second
)

type orchestratorImpl struct {
	session      recording_session.Interface
	sttEngine    speech_to_text.Interface
	link         actuator.Interface
	metrics      *metrics.Metrics
	recordWindow time.Duration
	settleTime   time.Duration
	sttTimeout   time.Duration
	wait         func(ctx context.Context, d time.Duration) error
}

type Config struct {
	Session   recording_session.Interface
	STTEngine speech_to_text.Interface
	Link      actuator.Interface
	Metrics   *metrics.Metrics

	RecordWindow time.Duration
	SettleTime   time.Duration
	// TranscribeTimeout bounds each transcription call. Zero waits forever.
	TranscribeTimeout time.Duration

	// Wait replaces the timer used for the record window and settle time.
	Wait func(ctx context.Context, d time.Duration) error
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Session == nil {
		return nil, fmt.Errorf("session is nil")
	}

	if cfg.STTEngine == nil {
		return nil, fmt.Errorf("sttEngine is nil")
	}

	if cfg.Link == nil {
		return nil, fmt.Errorf("link is nil")
	}

	recordWindow := cfg.RecordWindow
	if recordWindow <= 0 {
		recordWindow = DefaultRecordWindow
	}

	settleTime := cfg.SettleTime
	if settleTime < 0 {
		settleTime = 0
	}

	wait := cfg.Wait
	if wait == nil {
		wait = sleep
	}

	return &orchestratorImpl{
		session:      cfg.Session,
		sttEngine:    cfg.STTEngine,
		link:         cfg.Link,
		metrics:      cfg.Metrics,
		recordWindow: recordWindow,
		settleTime:   settleTime,
		sttTimeout:   cfg.TranscribeTimeout,
		wait:         wait,
	}, nil
}

func (o *orchestratorImpl) Run(ctx context.Context) error {
	log.Printf("listening for commands\n")

	for {
		err := o.RunCycle(ctx)

		if ctx.Err() != nil {
			log.Printf("exiting gracefully\n")

			return nil
		}

		if failure.Fatal(err) {
			return err
		}

		if err != nil {
			log.Printf("cycle failed: %v", err)
		}

		log.Printf("waiting for the next command\n")
	}
}

func (o *orchestratorImpl) RunCycle(ctx context.Context) error {
	cycleID := uuid.NewString()

	o.metrics.CycleStarted()

	err := o.runCycle(ctx, cycleID)
	if err != nil && ctx.Err() == nil {
		kind := failure.Kind(err)

		o.metrics.CycleFailed(kind)

		if errors.Is(err, failure.ErrUnrecognizedSpeech) || errors.Is(err, failure.ErrTranscription) {
			log.Printf("[%s] angle not recognized, please try again", cycleID)
		}
	}

	return err
}

func (o *orchestratorImpl) runCycle(ctx context.Context, cycleID string) error {
	if err := o.session.Start(); err != nil {
		return errors.Wrap(err, "start recording")
	}

	log.Printf("[%s] recording started\n", cycleID)

	waitErr := o.wait(ctx, o.recordWindow)

	// The microphone is released even when the wait was interrupted.
	rec, err := o.session.Stop()
	if waitErr != nil {
		o.discard(rec)
		return waitErr
	}

	if err != nil {
		return errors.Wrap(err, "finish recording")
	}

	if rec == nil {
		return errors.New("finish recording: session was not armed")
	}

	defer o.discard(rec)

	o.metrics.ObserveRecording(rec.Duration())

	log.Printf("[%s] recording saved to %s (%s), processing\n", cycleID, rec.Path, rec.Duration())

	text, err := o.transcribe(ctx, rec.Path)
	if err != nil {
		return err
	}

	log.Printf("[%s] recognized text: %s\n", cycleID, text)

	cmd, err := command.Extract(text)
	if err != nil {
		return err
	}

	wire, err := command.Encode(cmd)
	if err != nil {
		return err
	}

	if err := o.link.Write(wire.Bytes()); err != nil {
		return err
	}

	o.metrics.CommandSent(cmd.Direction.String())

	log.Printf("[%s] command sent: %s\n", cycleID, wire)
	log.Printf("[%s] rotated %s by %d degrees\n", cycleID, cmd.Direction, cmd.Angle)

	return o.wait(ctx, o.settleTime)
}

func (o *orchestratorImpl) transcribe(ctx context.Context, wavFilename string) (string, error) {
	if o.sttTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.sttTimeout)
		defer cancel()
	}

	started := time.Now()
	defer func() {
		o.metrics.ObserveTranscription(time.Since(started))
	}()

	return o.sttEngine.Transcribe(ctx, wavFilename)
}

func (o *orchestratorImpl) discard(rec *recording_session.Recording) {
	if err := o.session.Discard(rec); err != nil {
		log.Printf("error discarding recording: %v", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
