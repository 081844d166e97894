package drivers

import (
	"fmt"
	"strings"

	"arduplot/config"
	"arduplot/logging"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
)

const AUTO_PORT = "auto"

// Arduino & clones common VIDs
var preferredVIDs = map[string]bool{
	"2341": true, // Arduino
	"2A03": true, // Arduino (older)
	"1A86": true, // CH340
	"10C4": true, // CP210x
	"0403": true, // FTDI
}

type Serial struct {
	*config.SerialFlags
	port serial.Port
	log  *zap.Logger
}

func NewSerial(serialFlags *config.SerialFlags) *Serial {
	return &Serial{
		serialFlags,
		nil,
		logging.Named("serial"),
	}
}

func (s *Serial) Init() error {
	name := s.Port
	if name == AUTO_PORT {
		ports, err := enumerator.GetDetailedPortsList()
		if err != nil {
			return fmt.Errorf("enumerate ports: %w", err)
		}
		name, err = pickPort(ports)
		if err != nil {
			return fmt.Errorf("auto-select: %w", err)
		}
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: s.BaudRate})
	if err != nil {
		return fmt.Errorf("open serial %s: %w", name, err)
	}
	s.port = port
	s.log.Info("connected", zap.String("port", name), zap.Int("baud", s.BaudRate))
	return nil
}

func (s *Serial) Write(p []byte) (int, error) {
	if s.port == nil {
		return 0, ErrNotInitialised
	}
	return s.port.Write(p)
}

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	if err != nil {
		return fmt.Errorf("close serial: %w", err)
	}
	return nil
}

// ListPorts returns every serial port on the machine, whether or not it looks like an Arduino.
func ListPorts() ([]*enumerator.PortDetails, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate ports: %w", err)
	}
	return ports, nil
}

// IsPreferred reports whether p is a USB port with a known Arduino (or clone) VID.
func IsPreferred(p *enumerator.PortDetails) bool {
	return p.IsUSB && preferredVIDs[strings.ToUpper(p.VID)]
}

// pickPort returns the first arduino-ish port.
func pickPort(ports []*enumerator.PortDetails) (string, error) {
	for _, p := range ports {
		if IsPreferred(p) {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("no arduino serial ports found")
}
