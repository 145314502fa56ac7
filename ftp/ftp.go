// Package ftp holds the wire-level constants shared by the server and
// client packages: reply status codes and the control-channel command
// tokens this implementation recognizes.
package ftp

// StatusCode is an FTP reply status code, the three-digit number that
// opens every reply line.
type StatusCode = int

const (
	StatusFileStatusOK StatusCode = 150 // about to open data connection

	StatusCommandOK              StatusCode = 200 // PORT ok, CWD ok
	StatusCommandNotImplemented  StatusCode = 202 // unknown command
	StatusServiceReadyForNewUser StatusCode = 220 // on accept
	StatusServiceClosing         StatusCode = 221 // QUIT
	StatusClosingDataConnection  StatusCode = 226 // transfer complete
	StatusUserLoggedIn           StatusCode = 230 // PASS ok
	StatusPathnameCreated        StatusCode = 257 // PWD

	StatusUsernameOKNeedPassword StatusCode = 331 // USER ok, need password

	StatusCantOpenDataConnection StatusCode = 425 // data dial failure

	StatusSyntaxErrorInParameters StatusCode = 501 // PORT parse failure
	StatusBadSequenceOfCommands   StatusCode = 503 // out-of-phase command
	StatusNotLoggedIn             StatusCode = 530 // USER/PASS failure, protected command pre-auth
	StatusFileUnavailable         StatusCode = 550 // missing path, jail violation, bad filename
)

var statusText = map[StatusCode]string{
	StatusFileStatusOK:            "File status okay; about to open data connection",
	StatusCommandOK:               "Command okay",
	StatusCommandNotImplemented:   "Command not implemented",
	StatusServiceReadyForNewUser:  "Service ready for new user",
	StatusServiceClosing:          "Service closing control connection",
	StatusClosingDataConnection:   "Closing data connection",
	StatusUserLoggedIn:            "User logged in, proceed",
	StatusPathnameCreated:         "Pathname created",
	StatusUsernameOKNeedPassword:  "Username okay, need password",
	StatusCantOpenDataConnection:  "Can't open data connection",
	StatusSyntaxErrorInParameters: "Syntax error in parameters or arguments",
	StatusBadSequenceOfCommands:   "Bad sequence of commands",
	StatusNotLoggedIn:             "Not logged in",
	StatusFileUnavailable:         "Requested action not taken; file unavailable",
}

// StatusText returns the default human text for a reply code, or "" if
// this implementation never emits that code.
func StatusText(code StatusCode) string {
	return statusText[code]
}

// Command is a control-channel verb.
type Command = string

// Commands accepted by the dispatcher.
const (
	USER Command = "USER"
	PASS Command = "PASS"
	PORT Command = "PORT"
	STOR Command = "STOR"
	RETR Command = "RETR"
	LIST Command = "LIST"
	CWD  Command = "CWD"
	PWD  Command = "PWD"
	QUIT Command = "QUIT"
)
