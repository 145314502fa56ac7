package wire

import (
	"bytes"
	"strings"
	"testing"
)

func TestSendLineAppendsCRLF(t *testing.T) {
	var buf bytes.Buffer
	c := New(&loopback{r: strings.NewReader(""), w: &buf}, nil)

	if err := c.SendLine("220 ready"); err != nil {
		t.Fatalf("SendLine: %v", err)
	}
	if got := buf.String(); got != "220 ready\r\n" {
		t.Fatalf("wrote %q, want %q", got, "220 ready\r\n")
	}
}

func TestRecvLineTrimsDelimiter(t *testing.T) {
	c := New(&loopback{r: strings.NewReader("USER alice\r\nPASS wonderland\n"), w: &bytes.Buffer{}}, nil)

	line, err := c.RecvLine()
	if err != nil {
		t.Fatalf("RecvLine: %v", err)
	}
	if line != "USER alice" {
		t.Fatalf("RecvLine = %q, want %q", line, "USER alice")
	}

	line, err = c.RecvLine()
	if err != nil {
		t.Fatalf("RecvLine: %v", err)
	}
	if line != "PASS wonderland" {
		t.Fatalf("RecvLine = %q, want %q", line, "PASS wonderland")
	}
}

func TestRecvLineToleratesMissingFinalDelimiter(t *testing.T) {
	c := New(&loopback{r: strings.NewReader("QUIT"), w: &bytes.Buffer{}}, nil)

	line, err := c.RecvLine()
	if err != nil {
		t.Fatalf("RecvLine: %v", err)
	}
	if line != "QUIT" {
		t.Fatalf("RecvLine = %q, want %q", line, "QUIT")
	}
}

func TestCopyChunked(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5a}, 2500)
	var dst bytes.Buffer

	n, err := CopyChunked(&dst, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("CopyChunked: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("CopyChunked copied %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(dst.Bytes(), payload) {
		t.Fatal("CopyChunked produced mismatched content")
	}
}

// loopback adapts separate io.Reader/io.Writer values to the
// io.ReadWriter Codec.New wants, since a real net.Conn isn't needed
// for these framing-only tests.
type loopback struct {
	r interface{ Read([]byte) (int, error) }
	w interface{ Write([]byte) (int, error) }
}

func (l *loopback) Read(p []byte) (int, error)  { return l.r.Read(p) }
func (l *loopback) Write(p []byte) (int, error) { return l.w.Write(p) }
