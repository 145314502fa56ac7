// Package client dials an ftpd control channel, drives the
// USER/PASS/PORT/STOR/RETR/LIST/CWD/PWD/QUIT exchange, and listens for
// the server's data-channel dial-in for each transfer.
package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// acceptTimeout bounds how long a transfer command waits for the
// server to dial the data listener it just announced.
const acceptTimeout = 10 * time.Second

// Client drives one control connection against an ftpd server.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
}

// Dial opens the control channel to addr and reads the server's 220
// greeting.
func Dial(addr string) (*Client, string, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("dialing %s: %w", addr, err)
	}
	c := &Client{conn: conn, r: bufio.NewReader(conn)}
	greeting, err := c.readReply()
	if err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("reading greeting: %w", err)
	}
	return c, greeting, nil
}

// Close closes the control connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// sendCommand writes a command line and returns the following reply.
func (c *Client) sendCommand(line string) (string, error) {
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", line); err != nil {
		return "", fmt.Errorf("sending %q: %w", line, err)
	}
	return c.readReply()
}

func (c *Client) readReply() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Login runs USER then PASS and returns the final reply (230 on
// success, the server's failure reply otherwise).
func (c *Client) Login(user, pass string) (string, error) {
	if _, err := c.sendCommand("USER " + user); err != nil {
		return "", err
	}
	return c.sendCommand("PASS " + pass)
}

// Pwd issues PWD and returns the reply line verbatim.
func (c *Client) Pwd() (string, error) {
	return c.sendCommand("PWD")
}

// Cwd issues CWD path and returns the reply line verbatim.
func (c *Client) Cwd(path string) (string, error) {
	return c.sendCommand("CWD " + path)
}

// Quit issues QUIT and closes the connection.
func (c *Client) Quit() (string, error) {
	reply, err := c.sendCommand("QUIT")
	c.conn.Close()
	return reply, err
}

// dataListener opens an ephemeral local listener and announces it to
// the server with PORT, the active-mode half of every transfer
// command. Callers must Close() the returned listener once the
// transfer's Accept has completed or failed.
func (c *Client) dataListener() (net.Listener, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("opening local data listener: %w", err)
	}

	arg, err := portArgFor(ln.Addr().String())
	if err != nil {
		ln.Close()
		return nil, err
	}
	reply, err := c.sendCommand("PORT " + arg)
	if err != nil {
		ln.Close()
		return nil, err
	}
	if !strings.HasPrefix(reply, "200") {
		ln.Close()
		return nil, fmt.Errorf("PORT rejected: %s", reply)
	}
	return ln, nil
}

// Stor uploads all of r as filename: PORT, STOR, then writes r to the
// accepted data connection until EOF.
func (c *Client) Stor(filename string, r io.Reader) (string, error) {
	ln, err := c.dataListener()
	if err != nil {
		return "", err
	}
	defer ln.Close()

	reply, err := c.sendCommand("STOR " + filename)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(reply, "150") {
		return reply, nil
	}

	conn, err := acceptWithTimeout(ln)
	if err != nil {
		return "", fmt.Errorf("accepting data connection: %w", err)
	}
	defer conn.Close()

	if _, err := io.Copy(conn, r); err != nil {
		return "", fmt.Errorf("writing STOR payload: %w", err)
	}
	conn.Close()

	return c.readReply()
}

// Retr downloads filename, writing its bytes to w, and returns the
// final reply.
func (c *Client) Retr(filename string, w io.Writer) (string, error) {
	ln, err := c.dataListener()
	if err != nil {
		return "", err
	}
	defer ln.Close()

	reply, err := c.sendCommand("RETR " + filename)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(reply, "150") {
		return reply, nil
	}

	conn, err := acceptWithTimeout(ln)
	if err != nil {
		return "", fmt.Errorf("accepting data connection: %w", err)
	}
	defer conn.Close()

	if _, err := io.Copy(w, conn); err != nil {
		return "", fmt.Errorf("reading RETR payload: %w", err)
	}

	return c.readReply()
}

// List fetches the current directory's entry names.
func (c *Client) List() ([]string, string, error) {
	ln, err := c.dataListener()
	if err != nil {
		return nil, "", err
	}
	defer ln.Close()

	reply, err := c.sendCommand("LIST")
	if err != nil {
		return nil, "", err
	}
	if !strings.HasPrefix(reply, "150") {
		return nil, reply, nil
	}

	conn, err := acceptWithTimeout(ln)
	if err != nil {
		return nil, "", fmt.Errorf("accepting data connection: %w", err)
	}
	defer conn.Close()

	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, "", fmt.Errorf("reading LIST payload: %w", err)
	}

	final, err := c.readReply()
	if err != nil {
		return nil, "", err
	}

	payload := strings.TrimSpace(string(data))
	if payload == "" {
		return nil, final, nil
	}
	return strings.Split(payload, "\n"), final, nil
}

func acceptWithTimeout(ln net.Listener) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := ln.Accept()
		ch <- result{conn, err}
	}()

	select {
	case r := <-ch:
		return r.conn, r.err
	case <-time.After(acceptTimeout):
		return nil, fmt.Errorf("timed out waiting for server data connection")
	}
}

// portArgFor converts a dotted loopback "host:port" address into the
// PORT command's "h1,h2,h3,h4,p1,p2" argument form.
func portArgFor(addr string) (string, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("splitting %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", fmt.Errorf("parsing port %q: %w", portStr, err)
	}
	return fmt.Sprintf("%s,%d,%d", strings.ReplaceAll(host, ".", ","), port/256, port%256), nil
}
