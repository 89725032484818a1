package records

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"testing"

	"github.com/dermesser/slaverpc/proto"

	pb "github.com/gogo/protobuf/proto"
)

func TestRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewWriter(buf)

	b1 := []byte{3, 23, 11, 45, 32, 11, 23, 45, 88, 99, 64, 34}
	b2 := []byte{3, 23, 11, 45, 32, 11, 23, 45, 88, 99, 64, 35}

	if err := w.WriteRecord(b1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRecord(b2); err != nil {
		t.Fatal(err)
	}

	r := NewReader(buf)

	r1, err := r.ReadRecord()
	if err != nil || !bytes.Equal(b1, r1) {
		t.Error("first record doesn't match:", err)
	}
	r2, err := r.ReadRecord()
	if err != nil || !bytes.Equal(b2, r2) {
		t.Error("second record doesn't match:", err)
	}

	if _, err = r.ReadRecord(); err != io.EOF {
		t.Error("expected EOF after last record, got", err)
	}
}

func TestTruncatedRecord(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewWriter(buf)

	if err := w.WriteRecord([]byte("hello world")); err != nil {
		t.Fatal(err)
	}

	truncated := buf.Bytes()[:buf.Len()-3]
	r := NewReader(bytes.NewReader(truncated))

	if _, err := r.ReadRecord(); err != io.ErrUnexpectedEOF {
		t.Error("expected ErrUnexpectedEOF, got", err)
	}
}

// Tests that we can write and read records to/from files.
func TestFileBacked(t *testing.T) {
	f, err := ioutil.TempFile("", "slaverpc_records_test_")

	if err != nil {
		t.FailNow()
	}

	defer func() { name := f.Name(); f.Close(); os.Remove(name) }()

	w := NewWriter(f)

	rq := &proto.RPCRequest{Srvc: pb.String("Slave"), Procedure: pb.String("Call")}

	if err := w.WriteMessage(rq); err != nil {
		t.Fatal(err)
	}

	f.Seek(0, 0)

	back := new(proto.RPCRequest)

	if err := NewReader(f).ReadMessage(back); err != nil {
		t.Fatal(err)
	}

	if back.GetSrvc() != "Slave" || back.GetProcedure() != "Call" {
		t.Error("read back wrong message:", back)
	}
}
