package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-tty"
	"golang.org/x/term"
)

// session is a source of command lines that also displays monitor output.
type session interface {
	ReadLine(prompt string) (string, error)
	io.Writer
	Close() error
}

// openSession reads from the serial device at ttyPath if set. Otherwise it
// uses the controlling terminal, or plain stdin if stdin is not a terminal.
func openSession(ttyPath string) (session, error) {
	switch {
	case ttyPath != "":
		return newTTYSession(ttyPath)
	case term.IsTerminal(int(os.Stdin.Fd())):
		return newTermSession()
	default:
		return newPipeSession(os.Stdin, os.Stdout), nil
	}
}

// termSession provides line editing and history on the local terminal.
type termSession struct {
	fd    int
	state *term.State
	t     *term.Terminal
}

func newTermSession() (*termSession, error) {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("switching terminal to raw mode: %w", err)
	}

	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}

	return &termSession{
		fd:    fd,
		state: state,
		t:     term.NewTerminal(rw, ""),
	}, nil
}

func (s *termSession) ReadLine(prompt string) (string, error) {
	s.t.SetPrompt(prompt)
	return s.t.ReadLine()
}

func (s *termSession) Write(p []byte) (int, error) {
	return s.t.Write(p)
}

func (s *termSession) Close() error {
	return term.Restore(s.fd, s.state)
}

// ttySession talks to the monitor user over a serial line.
type ttySession struct {
	tty *tty.TTY
}

func newTTYSession(path string) (*ttySession, error) {
	t, err := tty.OpenDevice(path)
	if err != nil {
		return nil, fmt.Errorf("%s: opening serial device: %w", path, err)
	}
	return &ttySession{tty: t}, nil
}

func (s *ttySession) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(s.tty.Output(), prompt); err != nil {
		return "", err
	}
	return s.tty.ReadString()
}

func (s *ttySession) Write(p []byte) (int, error) {
	return crlfWriter{w: s.tty.Output()}.Write(p)
}

func (s *ttySession) Close() error {
	return s.tty.Close()
}

// crlfWriter expands LF to CR LF for devices in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (cw crlfWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		line := p
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			line = p[:i]
		}

		n, err := cw.w.Write(line)
		written += n
		if err != nil {
			return written, err
		}
		p = p[len(line):]

		if len(p) > 0 {
			if _, err = io.WriteString(cw.w, "\r\n"); err != nil {
				return written, err
			}
			written++
			p = p[1:]
		}
	}
	return written, nil
}

// pipeSession reads newline terminated commands from a non-interactive
// input such as a file or a pipe.
type pipeSession struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPipeSession(r io.Reader, w io.Writer) *pipeSession {
	return &pipeSession{in: bufio.NewScanner(r), out: w}
}

func (s *pipeSession) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(s.out, prompt); err != nil {
		return "", err
	}

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	// Echo the command as a terminal would
	fmt.Fprintln(s.out, s.in.Text())
	return s.in.Text(), nil
}

func (s *pipeSession) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *pipeSession) Close() error {
	return nil
}
