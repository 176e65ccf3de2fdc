package singer

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Writer emits Singer messages as JSON lines. Writes are serialized so the
// sync engine and the state mirror can share one writer.
type Writer struct {
	mu  sync.Mutex
	buf *bufio.Writer
	enc *json.Encoder
}

// NewWriter creates a writer over w. A nil writer defaults to os.Stdout,
// which is where targets expect the message stream.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		w = os.Stdout
	}
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	// Record values may contain URLs; keep them readable.
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

func (w *Writer) write(msg any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(msg)
}

// WriteSchema emits a SCHEMA message.
func (w *Writer) WriteSchema(stream string, schema *Schema, keyProps, bookmarkProps []string) error {
	return w.write(NewSchemaMessage(stream, schema, keyProps, bookmarkProps))
}

// WriteRecord emits a RECORD message.
func (w *Writer) WriteRecord(stream string, record map[string]any, extracted time.Time) error {
	return w.write(NewRecordMessage(stream, record, extracted))
}

// WriteState emits a STATE message carrying the full state value.
func (w *Writer) WriteState(state *State) error {
	return w.write(NewStateMessage(state))
}

// WriteActivateVersion emits an ACTIVATE_VERSION message.
func (w *Writer) WriteActivateVersion(stream string, version int64) error {
	return w.write(NewActivateVersionMessage(stream, version))
}

// Flush drains the buffer. Callers must flush before exiting, otherwise the
// tail of the stream is lost.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Flush()
}
