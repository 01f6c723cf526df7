package record

import (
	"io"

	"go.bug.st/serial"
)

// DefaultBaud matches the acquisition box's serial link.
const DefaultBaud = 115200

// OpenSerial opens a serial port at 8N1 for line output.
func OpenSerial(path string, baud int) (io.WriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(path, mode)
}
