package actuator

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"voice-actuator/failure"
)

type SerialConfig struct {
	Port        string        `yaml:"port"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// OpenSerial opens the microcontroller's serial port as 8N1 at the configured
// baud rate.
func OpenSerial(cfg *SerialConfig) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("serial port is empty")
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, failure.Wrap(failure.ErrDeviceOpen, err, "open serial port "+cfg.Port)
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, failure.Wrap(failure.ErrDeviceOpen, err, "configure serial port "+cfg.Port)
		}
	}

	return NewLink(cfg.Port, port)
}
