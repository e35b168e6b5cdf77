package recording_session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"voice-actuator/audio_capture"
)

const (
	filePrefix = "input_"
	fileExt    = ".wav"
)

type sessionImpl struct {
	capture audio_capture.Interface
	fileSys afero.Fs
	dir     string
	format  audio_capture.Format
	now     func() time.Time

	mu        sync.Mutex
	state     State
	startedAt time.Time
	stop      chan struct{}
	done      chan error
}

type Config struct {
	Capture audio_capture.Interface
	FileSys afero.Fs
	Dir     string
	Format  audio_capture.Format
	Now     func() time.Time
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Capture == nil {
		return nil, fmt.Errorf("capture is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if err := cfg.Format.Validate(); err != nil {
		return nil, err
	}

	dir := cfg.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	if err := cfg.FileSys.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create recordings dir %s", dir)
	}

	return &sessionImpl{
		capture: cfg.Capture,
		fileSys: cfg.FileSys,
		dir:     dir,
		format:  cfg.Format,
		now:     now,
	}, nil
}

func (s *sessionImpl) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return nil
	}

	ready := make(chan error, 1)
	s.stop = make(chan struct{})
	s.done = make(chan error, 1)
	s.startedAt = s.now()

	go s.captureWorker(ready, s.stop, s.done)

	if err := <-ready; err != nil {
		return err
	}

	s.state = Armed

	return nil
}

// captureWorker owns the input stream between arm and disarm. It reports the
// arm result on ready, then waits for stop and reports the disarm result on
// done before exiting.
func (s *sessionImpl) captureWorker(ready chan<- error, stop <-chan struct{}, done chan<- error) {
	if err := s.capture.Arm(); err != nil {
		ready <- err
		return
	}

	ready <- nil

	<-stop

	done <- s.capture.Disarm()
}

func (s *sessionImpl) Stop() (*Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Armed {
		return nil, nil
	}

	s.state = Finalizing
	defer func() {
		s.state = Idle
	}()

	close(s.stop)
	disarmErr := <-s.done

	frames := s.capture.Frames()

	if disarmErr != nil {
		log.Printf("error stopping capture: %v", disarmErr)
	}

	name := filePrefix + strconv.FormatInt(s.startedAt.Unix(), 10) + fileExt

	rec := &Recording{
		Name:      name,
		Path:      filepath.Join(s.dir, name),
		StartedAt: s.startedAt,
		Format:    s.format,
		Frames:    frames,
	}

	if err := s.save(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *sessionImpl) save(rec *Recording) error {
	file, err := s.fileSys.Create(rec.Path)
	if err != nil {
		return errors.Wrapf(err, "create %s", rec.Path)
	}

	defer file.Close()

	if err := writeWAV(file, rec.Format, rec.Frames); err != nil {
		return errors.Wrapf(err, "write %s", rec.Path)
	}

	return nil
}

func (s *sessionImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *sessionImpl) Discard(rec *Recording) error {
	if rec == nil {
		return nil
	}

	err := s.fileSys.Remove(rec.Path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", rec.Path)
	}

	return nil
}

func (s *sessionImpl) Cleanup() error {
	matches, err := afero.Glob(s.fileSys, filepath.Join(s.dir, filePrefix+"*"+fileExt))
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := s.fileSys.Remove(match); err != nil {
			return errors.Wrapf(err, "remove %s", match)
		}
	}

	return nil
}
