package server

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/telebroad/ftpd/ftp"
	"github.com/telebroad/ftpd/internal/userfs"
	"github.com/telebroad/ftpd/internal/wire"
)

// dialTimeout bounds how long a worker waits to connect to the
// client's announced data endpoint before reporting 425.
const dialTimeout = 5 * time.Second

// runStor, runRetr and runList are the data-transfer workers (C6).
// Each owns the data connection for its whole lifetime, shares no
// mutable state with the control loop besides the session (writes to
// which are serialized by Session.sendMu), and always ends with
// exactly one final reply.
func (s *Session) runStor(ep dataEndpoint, filename string) {
	s.reply(ftp.StatusFileStatusOK, "File status okay; about to open data connection.")

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(ep.host, strconv.Itoa(ep.port)), dialTimeout)
	if err != nil {
		s.reply(ftp.StatusCantOpenDataConnection, "Can't open data connection.")
		return
	}
	defer conn.Close()

	n, err := userfs.CreateFile(s.currentDir, filename, conn)
	if err != nil {
		s.server.Logger.Warn("stor failed", "session", s.id, "file", filename, "err", err)
		s.reply(ftp.StatusFileUnavailable, "Requested action not taken; file unavailable.")
		return
	}

	s.server.Metrics.TransferCompleted("stor", n)
	s.reply(ftp.StatusClosingDataConnection, "Transfer complete.")
}

func (s *Session) runRetr(ep dataEndpoint, filename string) {
	f, err := userfs.OpenRegularFile(s.currentDir, filename)
	if err != nil {
		s.reply(ftp.StatusFileUnavailable, "Requested action not taken; file unavailable.")
		return
	}
	defer f.Close()

	s.reply(ftp.StatusFileStatusOK, "File status okay; about to open data connection.")

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(ep.host, strconv.Itoa(ep.port)), dialTimeout)
	if err != nil {
		s.reply(ftp.StatusCantOpenDataConnection, "Can't open data connection.")
		return
	}
	defer conn.Close()

	n, err := wire.CopyChunked(conn, f)
	if err != nil {
		s.server.Logger.Warn("retr failed", "session", s.id, "file", filename, "err", err)
		s.reply(ftp.StatusFileUnavailable, "Requested action not taken; file unavailable.")
		return
	}

	s.server.Metrics.TransferCompleted("retr", n)
	s.reply(ftp.StatusClosingDataConnection, "Transfer complete.")
}

func (s *Session) runList(ep dataEndpoint) {
	names, err := userfs.ListNames(s.currentDir)
	if err != nil {
		s.reply(ftp.StatusFileUnavailable, "Requested action not taken; file unavailable.")
		return
	}

	s.reply(ftp.StatusFileStatusOK, "File status okay; about to open data connection.")

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(ep.host, strconv.Itoa(ep.port)), dialTimeout)
	if err != nil {
		s.reply(ftp.StatusCantOpenDataConnection, "Can't open data connection.")
		return
	}
	defer conn.Close()

	payload := strings.Join(names, "\n")
	n, err := conn.Write([]byte(payload))
	if err != nil {
		s.server.Logger.Warn("list failed", "session", s.id, "err", err)
		s.reply(ftp.StatusFileUnavailable, "Requested action not taken; file unavailable.")
		return
	}

	s.server.Metrics.TransferCompleted("list", int64(n))
	s.reply(ftp.StatusClosingDataConnection, "Transfer complete.")
}
