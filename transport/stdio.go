package transport

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Spawn starts the language server as a child process and returns a
// transport wired to its stdin/stdout. The server's stderr is passed
// through to the client's stderr, where most servers write their logs.
func Spawn(command string, args ...string) (Transport, error) {
	cmd := exec.Command(command, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening server stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening server stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting server %q: %w", command, err)
	}

	return &processTransport{cmd: cmd, in: stdout, out: stdin}, nil
}

type processTransport struct {
	cmd *exec.Cmd
	in  io.ReadCloser
	out io.WriteCloser
}

func (p *processTransport) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *processTransport) Write(b []byte) (int, error) { return p.out.Write(b) }

func (p *processTransport) Close() error {
	p.out.Close()
	p.in.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return p.cmd.Wait()
}

// Stdio returns a Transport backed by this process's own stdin and stdout,
// for clients that are themselves spawned by an editor.
func Stdio() Transport {
	return &stdioTransport{in: os.Stdin, out: os.Stdout}
}

type stdioTransport struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (s *stdioTransport) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *stdioTransport) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s *stdioTransport) Close() error {
	s.in.Close()
	return s.out.Close()
}
