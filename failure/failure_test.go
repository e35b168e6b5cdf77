package failure

import (
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestWrap(t *testing.T) {
	t.Run("wrapped errors match their kind and keep the cause", func(t *testing.T) {
		err := Wrap(ErrLinkWrite, io.ErrShortWrite, "serial write")

		if !errors.Is(err, ErrLinkWrite) {
			t.Errorf("expected %v to be ErrLinkWrite", err)
		}

		if !errors.Is(err, io.ErrShortWrite) {
			t.Errorf("expected %v to wrap io.ErrShortWrite", err)
		}

		if errors.Is(err, ErrLinkClosed) {
			t.Errorf("did not expect %v to be ErrLinkClosed", err)
		}

		if err.Error() != "LINK_WRITE: serial write: short write" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("nil cause stays nil", func(t *testing.T) {
		if err := Wrap(ErrTranscription, nil, "ignored"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("kind survives further wrapping", func(t *testing.T) {
		err := errors.Wrap(New(ErrEncoding, "angle %d", 1000), "cycle")

		if Kind(err) != "ENCODING" {
			t.Errorf("expected ENCODING, got %s", Kind(err))
		}
	})
}

func TestKind(t *testing.T) {
	if Kind(nil) != "" {
		t.Errorf("expected empty kind for nil")
	}

	if Kind(errors.New("boom")) != "OTHER" {
		t.Errorf("expected OTHER for untagged error")
	}

	if Kind(New(ErrUnrecognizedSpeech, "no direction")) != "UNRECOGNIZED_SPEECH" {
		t.Errorf("expected UNRECOGNIZED_SPEECH")
	}
}

func TestFatal(t *testing.T) {
	if !Fatal(Wrap(ErrDeviceOpen, io.EOF, "microphone")) {
		t.Errorf("device open failures must be fatal")
	}

	for _, kind := range []error{ErrTranscription, ErrUnrecognizedSpeech, ErrEncoding, ErrLinkClosed, ErrLinkWrite} {
		if Fatal(New(kind, "x")) {
			t.Errorf("%v must not be fatal", kind)
		}
	}
}
