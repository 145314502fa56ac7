package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/telebroad/ftpd/ftp"
	"github.com/telebroad/ftpd/internal/userfs"
)

var errBadPortArg = errors.New("malformed PORT argument")

// Handler is a command handler: it reads and mutates Session state and
// writes exactly one reply to the control channel (or, for transfer
// commands, hands off to a worker that writes the 150/226 pair).
type Handler func(s *Session, arg string)

// handlers routes a command verb to the function that handles it.
var handlers = map[string]Handler{
	ftp.USER: (*Session).cmdUser,
	ftp.PASS: (*Session).cmdPass,
	ftp.PORT: (*Session).cmdPort,
	ftp.STOR: (*Session).cmdStor,
	ftp.RETR: (*Session).cmdRetr,
	ftp.LIST: (*Session).cmdList,
	ftp.CWD:  (*Session).cmdCwd,
	ftp.PWD:  (*Session).cmdPwd,
	ftp.QUIT: (*Session).cmdQuit,
}

func (s *Session) cmdUser(arg string) {
	if s.phase != PhaseNeedUser {
		s.reply(ftp.StatusBadSequenceOfCommands, "Bad sequence of commands.")
		return
	}
	if arg == "" {
		s.reply(ftp.StatusNotLoggedIn, "Invalid username.")
		return
	}
	record, ok := s.server.Users.Get(arg)
	if !ok {
		s.reply(ftp.StatusNotLoggedIn, "Invalid username.")
		return
	}
	s.identity = &record
	s.phase = PhaseNeedPass
	s.reply(ftp.StatusUsernameOKNeedPassword, "Username okay, need password.")
}

func (s *Session) cmdPass(arg string) {
	if s.phase != PhaseNeedPass {
		s.reply(ftp.StatusBadSequenceOfCommands, "Bad sequence of commands.")
		return
	}
	if s.identity == nil || s.identity.Password != arg {
		s.phase = PhaseNeedUser
		s.identity = nil
		s.server.Metrics.AuthAttempt("failure")
		s.reply(ftp.StatusNotLoggedIn, "Login incorrect.")
		return
	}

	jail, err := userfs.NewJail(s.server.UsersRoot, s.identity.Username)
	if err != nil {
		s.server.Logger.Error("jail setup failed", "session", s.id, "user", s.identity.Username, "err", err)
		s.phase = PhaseNeedUser
		s.identity = nil
		s.server.Metrics.AuthAttempt("failure")
		s.reply(ftp.StatusNotLoggedIn, "Login incorrect.")
		return
	}

	s.jail = jail
	s.currentDir = jail.Root()
	s.phase = PhaseAuthenticated
	s.server.Metrics.AuthAttempt("success")
	s.reply(ftp.StatusUserLoggedIn, "User logged in, proceed.")
}

func (s *Session) cmdPort(arg string) {
	if s.phase != PhaseAuthenticated {
		s.reply(ftp.StatusNotLoggedIn, "Not logged in.")
		return
	}
	ep, err := parsePortArg(arg)
	if err != nil {
		s.reply(ftp.StatusSyntaxErrorInParameters, "Syntax error in parameters or arguments.")
		return
	}
	s.pendingData = &ep
	s.reply(ftp.StatusCommandOK, "PORT command successful.")
}

func (s *Session) cmdStor(arg string) {
	if s.phase != PhaseAuthenticated {
		s.clearPendingData()
		s.reply(ftp.StatusNotLoggedIn, "Not logged in.")
		return
	}
	ep := s.clearPendingData()
	if ep == nil {
		s.reply(ftp.StatusBadSequenceOfCommands, "Bad sequence of commands.")
		return
	}
	if err := userfs.ValidateFilename(arg); err != nil {
		s.reply(ftp.StatusFileUnavailable, "Requested action not taken; file unavailable.")
		return
	}
	go s.runStor(*ep, arg)
}

func (s *Session) cmdRetr(arg string) {
	if s.phase != PhaseAuthenticated {
		s.clearPendingData()
		s.reply(ftp.StatusNotLoggedIn, "Not logged in.")
		return
	}
	ep := s.clearPendingData()
	if ep == nil {
		s.reply(ftp.StatusBadSequenceOfCommands, "Bad sequence of commands.")
		return
	}
	if err := userfs.ValidateFilename(arg); err != nil {
		s.reply(ftp.StatusFileUnavailable, "Requested action not taken; file unavailable.")
		return
	}
	go s.runRetr(*ep, arg)
}

func (s *Session) cmdList(arg string) {
	if s.phase != PhaseAuthenticated {
		s.clearPendingData()
		s.reply(ftp.StatusNotLoggedIn, "Not logged in.")
		return
	}
	ep := s.clearPendingData()
	if ep == nil {
		s.reply(ftp.StatusBadSequenceOfCommands, "Bad sequence of commands.")
		return
	}
	go s.runList(*ep)
}

func (s *Session) cmdCwd(arg string) {
	if s.phase != PhaseAuthenticated {
		s.reply(ftp.StatusNotLoggedIn, "Not logged in.")
		return
	}
	dir, err := s.jail.ResolveDir(s.currentDir, arg)
	if err != nil {
		s.reply(ftp.StatusFileUnavailable, "No such file or directory.")
		return
	}
	s.currentDir = dir
	s.reply(ftp.StatusCommandOK, s.relativeDir())
}

func (s *Session) cmdPwd(arg string) {
	if s.phase != PhaseAuthenticated {
		s.reply(ftp.StatusNotLoggedIn, "Not logged in.")
		return
	}
	s.reply(ftp.StatusPathnameCreated, s.relativeDir())
}

func (s *Session) cmdQuit(arg string) {
	s.reply(ftp.StatusServiceClosing, "Service closing control connection.")
	s.closing = true
}

// parsePortArg parses "h1,h2,h3,h4,p1,p2" into a dataEndpoint. Each
// token must be a decimal integer in [0,255]; out-of-range or
// malformed tokens are rejected rather than clamped.
func parsePortArg(arg string) (dataEndpoint, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 6 {
		return dataEndpoint{}, errBadPortArg
	}
	nums := make([]int, 6)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return dataEndpoint{}, errBadPortArg
		}
		nums[i] = n
	}
	host := strconv.Itoa(nums[0]) + "." + strconv.Itoa(nums[1]) + "." + strconv.Itoa(nums[2]) + "." + strconv.Itoa(nums[3])
	port := nums[4]*256 + nums[5]
	return dataEndpoint{host: host, port: port}, nil
}
