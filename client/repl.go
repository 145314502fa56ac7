package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Repl runs an interactive prompt loop over c, reading lines from in
// and writing prompts/output to out. A line starting with "!" never
// reaches the wire: it runs as a local shell command instead.
type Repl struct {
	c   *Client
	in  *bufio.Scanner
	out io.Writer
}

// NewRepl builds a Repl reading commands from in and writing to out.
func NewRepl(c *Client, in io.Reader, out io.Writer) *Repl {
	return &Repl{c: c, in: bufio.NewScanner(in), out: out}
}

// Run reads lines until EOF or a QUIT, printing the server's reply (or
// local command output) after each.
func (r *Repl) Run() error {
	for {
		fmt.Fprint(r.out, "ftp> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "!") {
			r.runLocal(strings.TrimSpace(line[1:]))
			continue
		}

		quit, err := r.dispatch(line)
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

// runLocal execs a shell command locally; it never touches the control
// or data channel.
func (r *Repl) runLocal(command string) {
	if command == "" {
		return
	}
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = r.out
	cmd.Stderr = r.out
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(r.out, "local command failed: %v\n", err)
	}
}

// dispatch parses one REPL line into a client call. It returns quit =
// true once QUIT has been sent.
func (r *Repl) dispatch(line string) (quit bool, err error) {
	verb, arg := splitVerb(line)

	switch strings.ToUpper(verb) {
	case "USER":
		user := arg
		fmt.Fprint(r.out, "password: ")
		if !r.in.Scan() {
			return false, r.in.Err()
		}
		pass := strings.TrimSpace(r.in.Text())
		reply, err := r.c.Login(user, pass)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, reply)

	case "PWD":
		reply, err := r.c.Pwd()
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, reply)

	case "CWD", "CD":
		reply, err := r.c.Cwd(arg)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, reply)

	case "LIST", "LS":
		names, reply, err := r.c.List()
		if err != nil {
			return false, err
		}
		for _, n := range names {
			fmt.Fprintln(r.out, n)
		}
		fmt.Fprintln(r.out, reply)

	case "STOR", "PUT":
		f, err := os.Open(arg)
		if err != nil {
			return false, err
		}
		defer f.Close()
		reply, err := r.c.Stor(filenameOf(arg), f)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, reply)

	case "RETR", "GET":
		f, err := os.Create(filenameOf(arg))
		if err != nil {
			return false, err
		}
		defer f.Close()
		reply, err := r.c.Retr(arg, f)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, reply)

	case "QUIT", "BYE":
		reply, err := r.c.Quit()
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, reply)
		return true, nil

	default:
		fmt.Fprintf(r.out, "unknown command: %s\n", verb)
	}

	return false, nil
}

func splitVerb(line string) (verb, arg string) {
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

func filenameOf(path string) string {
	idx := strings.LastIndexAny(path, "/\\")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
