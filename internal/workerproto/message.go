// Package workerproto defines the wire format exchanged between the server
// process and a worker subprocess over a pair of pipes: a 4-byte big-endian
// length prefix followed by a JSON-encoded message body.
package workerproto

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageBytes bounds a single frame so a corrupted or malicious length
// prefix can't make the reader allocate an unbounded buffer.
const MaxMessageBytes = 16 << 20 // 16 MiB

// Kind discriminates the message types on the wire.
type Kind string

const (
	KindJob      Kind = "job"      // server -> worker: evaluate a request
	KindResult   Kind = "result"   // worker -> server: successful result
	KindError    Kind = "error"    // worker -> server: job failed
	KindReady    Kind = "ready"    // worker -> server: finished initializing
	KindShutdown Kind = "shutdown" // server -> worker: drain and exit
)

// Message is one frame on the wire. JobID is empty for Ready/Shutdown.
type Message struct {
	Kind    Kind            `json:"kind"`
	JobID   string          `json:"job_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WriteMessage frames m as a length-prefixed JSON blob and writes it to w.
func WriteMessage(w io.Writer, m Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("workerproto: marshal: %w", err)
	}
	if len(body) > MaxMessageBytes {
		return fmt.Errorf("workerproto: message of %d bytes exceeds limit", len(body))
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(body)))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("workerproto: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("workerproto: write body: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed JSON frame from r.
func ReadMessage(r io.Reader) (Message, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return Message{}, err
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	if n > MaxMessageBytes {
		return Message{}, fmt.Errorf("workerproto: frame of %d bytes exceeds limit", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Message{}, fmt.Errorf("workerproto: read body: %w", err)
	}
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return Message{}, fmt.Errorf("workerproto: unmarshal: %w", err)
	}
	return m, nil
}
