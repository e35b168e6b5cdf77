package speech_to_text

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/afero"

	"voice-actuator/failure"
)

type openaiImpl struct {
	client   *openai.Client
	fileSys  afero.Fs
	model    string
	language string
}

type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	FileSys  afero.Fs
}

func NewOpenAI(cfg *OpenAIConfig) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is empty")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &openaiImpl{
		client:   openai.NewClientWithConfig(clientConfig),
		fileSys:  cfg.FileSys,
		model:    model,
		language: cfg.Language,
	}, nil
}

func (o *openaiImpl) Transcribe(ctx context.Context, wavFilename string) (string, error) {
	file, err := o.fileSys.Open(wavFilename)
	if err != nil {
		return "", failure.Wrap(failure.ErrTranscription, err, "open recording")
	}

	defer file.Close()

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: filepath.Base(wavFilename),
		Reader:   file,
		Language: o.language,
	})
	if err != nil {
		return "", failure.Wrap(failure.ErrTranscription, err, "openai transcription")
	}

	return normalizeTranscript(resp.Text)
}
