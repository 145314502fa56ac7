// Package wire frames command and reply lines over a byte stream, and
// provides the chunked copy primitive used by the data channel.
package wire

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/telebroad/ftpd/internal/tools"
)

// chunkSize is the block size send_bytes/recv_bytes_to_file copy in.
const chunkSize = 1024

// Codec frames command/reply lines over a persistent control
// connection. It tolerates a missing trailing newline on receive and
// always sends one, and logs traffic at debug level when a logger is
// set.
type Codec struct {
	r      *bufio.Reader
	w      io.Writer
	logger *slog.Logger
}

// New wraps rw for line framing. logger may be nil to disable traffic
// logging.
func New(rw io.ReadWriter, logger *slog.Logger) *Codec {
	return &Codec{r: bufio.NewReader(rw), w: rw, logger: logger}
}

// SendLine writes s followed by CRLF. It returns a wrapped error if the
// channel is closed.
func (c *Codec) SendLine(s string) error {
	if c.logger != nil {
		c.logger.Debug("reply", "line", tools.Printable(s))
	}
	_, err := fmt.Fprintf(c.w, "%s\r\n", s)
	if err != nil {
		return fmt.Errorf("sending line: %w", err)
	}
	return nil
}

// RecvLine reads the next delimited message, tolerating either LF or
// CRLF termination and its absence on the final line before EOF. It
// returns io.EOF when the peer has closed the connection.
func (c *Codec) RecvLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		if line == "" {
			return "", err
		}
		// Last line before EOF, no trailing delimiter: still usable.
	}
	line = strings.TrimRight(line, "\r\n")
	if c.logger != nil {
		c.logger.Debug("command", "line", tools.Printable(line))
	}
	return line, nil
}

// CopyChunked streams src to dst in chunkSize blocks until src is
// exhausted, returning the number of bytes copied. Used for both
// directions of data-channel transfer.
func CopyChunked(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	// Wrapping hides any ReaderFrom/WriterTo, which io.CopyBuffer would
	// otherwise use instead of buf.
	return io.CopyBuffer(struct{ io.Writer }{dst}, struct{ io.Reader }{src}, buf)
}
