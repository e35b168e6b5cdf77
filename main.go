package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"voice-actuator/actuator"
	"voice-actuator/audio_capture"
	"voice-actuator/config"
	"voice-actuator/metrics"
	"voice-actuator/orchestrator"
	"voice-actuator/recording_session"
	"voice-actuator/speech_to_text"
)

func main() {
	configFlag := flag.String("c", "", "config file")
	modelFlag := flag.String("m", "", "model file for whisper, selects the local whisper backend")
	portFlag := flag.String("port", "", "serial port of the actuator")

	flag.Parse()

	cfg, err := config.Load(*configFlag, func(c *config.Config) {
		if *modelFlag != "" {
			c.Transcriber.Backend = config.BackendWhisper
			c.Transcriber.WhisperModelPath = *modelFlag
		}

		if *portFlag != "" {
			c.Serial.Port = *portFlag
		}
	})
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	setupLogging(cfg.Log)

	if err := run(cfg); err != nil {
		log.Fatalf("error: %v", err)
	}
}

// run owns every device for the process lifetime; all of them are released
// before it returns, whatever the outcome.
func run(cfg *config.Config) error {
	fileSys := afero.NewOsFs()

	link, err := actuator.OpenSerial(&cfg.Serial)
	if err != nil {
		return err
	}

	defer link.Close()

	log.Printf("connected to %s at %d baud", cfg.Serial.Port, cfg.Serial.BaudRate)

	sttEngine, closeSTT, err := newSTTEngine(cfg, fileSys)
	if err != nil {
		return err
	}

	defer closeSTT()

	host, err := audio_capture.InitHost()
	if err != nil {
		return err
	}

	defer host.Terminate()

	capture, err := audio_capture.New(&audio_capture.Config{
		Format: cfg.Audio,
		Open:   audio_capture.OpenPortAudio,
	})
	if err != nil {
		return err
	}

	session, err := recording_session.New(&recording_session.Config{
		Capture: capture,
		FileSys: fileSys,
		Dir:     cfg.Recordings.Dir,
		Format:  cfg.Audio,
	})
	if err != nil {
		return err
	}

	defer func() {
		if err := session.Cleanup(); err != nil {
			log.Printf("error removing recordings: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	orch, err := orchestrator.New(&orchestrator.Config{
		Session:           session,
		STTEngine:         sttEngine,
		Link:              link,
		Metrics:           m,
		RecordWindow:      cfg.Timing.RecordWindow,
		SettleTime:        cfg.Timing.SettleTime,
		TranscribeTimeout: cfg.Timing.TranscribeTimeout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer stop()

		return orch.Run(ctx)
	})

	if cfg.Metrics.Addr != "" {
		server := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Printf("serving metrics on %s", cfg.Metrics.Addr)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func newSTTEngine(cfg *config.Config, fileSys afero.Fs) (speech_to_text.Interface, func(), error) {
	if cfg.Transcriber.Backend == config.BackendWhisper {
		model, err := whisper.New(cfg.Transcriber.WhisperModelPath)
		if err != nil {
			return nil, nil, err
		}

		sttEngine, err := speech_to_text.NewWhisper(&speech_to_text.WhisperConfig{
			Model:    model,
			FileSys:  fileSys,
			Language: cfg.Transcriber.Language,
		})
		if err != nil {
			model.Close()
			return nil, nil, err
		}

		return sttEngine, func() { model.Close() }, nil
	}

	sttEngine, err := speech_to_text.NewOpenAI(&speech_to_text.OpenAIConfig{
		APIKey:   cfg.Transcriber.APIKey,
		BaseURL:  cfg.Transcriber.BaseURL,
		Model:    cfg.Transcriber.Model,
		Language: cfg.Transcriber.Language,
		FileSys:  fileSys,
	})
	if err != nil {
		return nil, nil, err
	}

	return sttEngine, func() {}, nil
}

func setupLogging(cfg config.LogConfig) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if cfg.File == "" {
		return
	}

	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}))
}
