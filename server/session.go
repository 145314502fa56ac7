package server

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/telebroad/ftpd/ftp"
	"github.com/telebroad/ftpd/internal/userfs"
	"github.com/telebroad/ftpd/internal/users"
	"github.com/telebroad/ftpd/internal/wire"
)

// Phase is the session's authentication state (C4).
type Phase int

const (
	PhaseNeedUser Phase = iota
	PhaseNeedPass
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseNeedUser:
		return "NEED_USER"
	case PhaseNeedPass:
		return "NEED_PASS"
	case PhaseAuthenticated:
		return "AUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// dataEndpoint is the (host, port) announced by the client's most
// recent PORT command.
type dataEndpoint struct {
	host string
	port int
}

func (e dataEndpoint) String() string {
	return fmt.Sprintf("%s:%d", e.host, e.port)
}

// Session is one established control connection. sendMu serializes
// writes to the control channel between the dispatch loop and any
// in-flight transfer worker.
type Session struct {
	id     string
	conn   net.Conn
	codec  *wire.Codec
	server *Server

	sendMu sync.Mutex

	phase       Phase
	identity    *users.Record
	jail        *userfs.Jail
	currentDir  string
	pendingData *dataEndpoint
	closing     bool
}

// reply writes a single "code text" line to the control channel,
// serialized against any concurrent transfer worker.
func (s *Session) reply(code ftp.StatusCode, text string) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := s.codec.SendLine(fmt.Sprintf("%d %s", code, text)); err != nil {
		s.server.Logger.Warn("write failed", "session", s.id, "err", err)
	}
}

// relativeDir returns currentDir with the users root prefix stripped,
// in the "/Users/<username>/<rest>" form CWD and PWD reply with.
func (s *Session) relativeDir() string {
	if s.jail == nil || s.identity == nil {
		return "/Users"
	}
	rel := s.jail.Relative(s.currentDir)
	if rel == "/" {
		rel = ""
	}
	return "/Users/" + s.identity.Username + rel
}

// clearPendingData consumes the pending data endpoint: a LIST/STOR/RETR
// attempt clears it whether it succeeds or fails.
func (s *Session) clearPendingData() *dataEndpoint {
	ep := s.pendingData
	s.pendingData = nil
	return ep
}

// parseCommandLine splits a raw control line into its verb and
// argument. The first token is the command, matched case-sensitively.
func parseCommandLine(line string) (verb, arg string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}
