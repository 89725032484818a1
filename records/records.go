package records

/*
Length-prefixed binary records. The server uses this format for its RPC record
log: every request and response envelope is appended as one record, which can be
read back later for inspection or replay.

A record is an 8 byte little-endian length followed by that many payload bytes.
*/

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	pb "github.com/gogo/protobuf/proto"
)

// Largest record accepted by a Reader. Doubles as a sanity check against
// reading garbage files.
const MaxRecordSize = 64 * 1024 * 1024

// Writer appends records to an underlying writer. Safe for concurrent use;
// the server's workers share one Writer.
type Writer struct {
	lock sync.Mutex
	w    io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteRecord(record []byte) error {
	var sizebuf [8]byte
	binary.LittleEndian.PutUint64(sizebuf[:], uint64(len(record)))

	w.lock.Lock()
	defer w.lock.Unlock()

	if _, err := w.w.Write(sizebuf[:]); err != nil {
		return err
	}
	_, err := w.w.Write(record)
	return err
}

// WriteMessage serializes msg and appends it as one record.
func (w *Writer) WriteMessage(msg pb.Message) error {
	serialized, err := pb.Marshal(msg)

	if err != nil {
		return err
	}
	return w.WriteRecord(serialized)
}

// Reader reads back records written by a Writer.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadRecord returns the next record, or io.EOF after the last one.
func (r *Reader) ReadRecord() ([]byte, error) {
	var sizebuf [8]byte

	if _, err := io.ReadFull(r.r, sizebuf[:]); err != nil {
		return nil, err
	}

	length := binary.LittleEndian.Uint64(sizebuf[:])

	if length > MaxRecordSize {
		return nil, errors.New("record exceeds maximum size")
	}

	record := make([]byte, length)

	if _, err := io.ReadFull(r.r, record); err != nil {
		// A short payload means the file was truncated mid-record.
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	return record, nil
}

// ReadMessage reads the next record and unmarshals it into msg.
func (r *Reader) ReadMessage(msg pb.Message) error {
	record, err := r.ReadRecord()

	if err != nil {
		return err
	}
	return pb.Unmarshal(record, msg)
}
