package record

import (
	"context"
	"io"
	"strconv"
)

// LineWriter emits "frame,seconds,value\n" lines, the stream format the
// acquisition box speaks over its serial link.
type LineWriter struct {
	w   io.Writer
	buf []byte
	// Precision is the number of decimals for the value field. Negative
	// selects the shortest exact representation.
	Precision int
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w, buf: make([]byte, 0, 64), Precision: -1}
}

func (l *LineWriter) Write(_ context.Context, r Record) error {
	b := l.buf[:0]
	b = strconv.AppendUint(b, r.Frame, 10)
	b = append(b, ',')
	b = strconv.AppendFloat(b, r.Seconds, 'f', 3, 64)
	b = append(b, ',')
	b = strconv.AppendFloat(b, r.Value, 'f', l.Precision, 64)
	b = append(b, '\n')
	l.buf = b
	_, err := l.w.Write(b)
	return err
}
