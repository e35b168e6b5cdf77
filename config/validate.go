package config

import "fmt"

func (c *Config) Validate() error {
	if c.Serial.Port == "" {
		return fmt.Errorf("serial port must be set")
	}

	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be positive, got %d", c.Serial.BaudRate)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio: %v", err)
	}

	if c.Timing.RecordWindow <= 0 {
		return fmt.Errorf("record window must be positive, got %s", c.Timing.RecordWindow)
	}

	if c.Timing.SettleTime < 0 {
		return fmt.Errorf("settle time must not be negative, got %s", c.Timing.SettleTime)
	}

	if c.Timing.TranscribeTimeout < 0 {
		return fmt.Errorf("transcribe timeout must not be negative, got %s", c.Timing.TranscribeTimeout)
	}

	switch c.Transcriber.Backend {
	case BackendOpenAI:
		if c.Transcriber.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set for the %s backend", BackendOpenAI)
		}
	case BackendWhisper:
		if c.Transcriber.WhisperModelPath == "" {
			return fmt.Errorf("whisper_model_path must be set for the %s backend", BackendWhisper)
		}
	default:
		return fmt.Errorf("invalid transcriber backend %q, must be one of: %s, %s", c.Transcriber.Backend, BackendOpenAI, BackendWhisper)
	}

	return nil
}
