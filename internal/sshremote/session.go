package sshremote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// ErrNotConnected is returned by operations that require an established
// session. Callers convert it to an error result, never a crash.
var ErrNotConnected = errors.New("not connected: call connect first")

// maxOutputBytes caps the command output relayed to the client.
const maxOutputBytes = 51200

// Session is the single implicit SSH session owned by the plugin instance.
// All operations are serialized by the session mutex; concurrent tool calls
// on the same plugin never interleave on the wire.
type Session struct {
	mu   sync.Mutex
	cfg  *Config
	conn *ssh.Client
	sftp *sftp.Client
}

// NewSession creates a disconnected session with no configuration.
func NewSession() *Session {
	return &Session{}
}

// Configure overwrites the session configuration. An established connection
// keeps running until the next connect.
func (s *Session) Configure(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}

// config returns the active configuration, falling back to the environment.
// Callers must hold s.mu.
func (s *Session) config() (*Config, error) {
	if s.cfg == nil {
		s.cfg = ConfigFromEnv()
	}
	if s.cfg == nil {
		return nil, errors.New("SSH is not configured: call configure or set SSH_HOST/SSH_USERNAME and an auth method")
	}
	return s.cfg, nil
}

// Connect establishes the session, replacing any previous connection. All
// state captured from a prior connection is discarded.
func (s *Session) Connect() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.config()
	if err != nil {
		return "", err
	}

	s.teardown()

	auth, err := authMethod(cfg)
	if err != nil {
		return "", err
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         cfg.Timeout,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return "", fmt.Errorf("failed to connect: %w", err)
	}
	s.conn = conn

	logrus.WithFields(logrus.Fields{
		"host": cfg.Host,
		"user": cfg.Username,
		"port": cfg.Port,
	}).Info("SSH connected")

	return fmt.Sprintf("Connected to %s@%s:%d", cfg.Username, cfg.Host, cfg.Port), nil
}

// authMethod picks the auth method by the original precedence: password,
// then inline key content, then key file.
func authMethod(cfg *Config) (ssh.AuthMethod, error) {
	switch {
	case cfg.Password != "":
		return ssh.Password(cfg.Password), nil
	case cfg.PrivateKeyContent != "":
		signer, err := ssh.ParsePrivateKey([]byte(cfg.PrivateKeyContent))
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key content: %w", err)
		}
		return ssh.PublicKeys(signer), nil
	case cfg.PrivateKeyPath != "":
		keyBytes, err := os.ReadFile(cfg.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		return ssh.PublicKeys(signer), nil
	default:
		return nil, errors.New("no authentication method provided (password or private key required)")
	}
}

// Disconnect closes the session. It reports whether a connection was open.
func (s *Session) Disconnect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return false
	}
	s.teardown()
	logrus.Info("SSH disconnected")
	return true
}

// teardown closes the connection and SFTP channel. Callers must hold s.mu.
func (s *Session) teardown() {
	if s.sftp != nil {
		s.sftp.Close()
		s.sftp = nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// RunResult contains one command's captured output.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Execute runs a command on the remote host and captures its output and
// exit status. The context cancels a hung command with SIGKILL.
func (s *Session) Execute(ctx context.Context, command string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrNotConnected
	}

	session, err := s.conn.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	stdout, _ := session.StdoutPipe()
	stderr, _ := session.StderrPipe()

	if err := session.Start(command); err != nil {
		return nil, fmt.Errorf("failed to start command: %w", err)
	}

	type captured struct {
		stdout []byte
		stderr []byte
	}
	done := make(chan captured, 1)
	go func() {
		outBytes, _ := io.ReadAll(stdout)
		errBytes, _ := io.ReadAll(stderr)
		done <- captured{stdout: outBytes, stderr: errBytes}
	}()

	var out captured
	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return nil, ctx.Err()
	case out = <-done:
	}

	var exitCode int
	if err := session.Wait(); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitStatus()
		} else {
			return nil, fmt.Errorf("command failed: %w", err)
		}
	}

	return &RunResult{
		Stdout:   strings.TrimSpace(string(out.stdout)),
		Stderr:   strings.TrimSpace(string(out.stderr)),
		ExitCode: exitCode,
	}, nil
}

// FormatResult renders a RunResult the way clients expect: stdout, then
// stderr, then a nonzero exit code annotation, truncated past 50 KiB.
func FormatResult(result *RunResult) string {
	var output strings.Builder
	if result.Stdout != "" {
		output.WriteString(result.Stdout)
	}
	if result.Stderr != "" {
		if output.Len() > 0 {
			output.WriteString("\n")
		}
		output.WriteString(result.Stderr)
	}

	if output.Len() == 0 {
		return "(No output)"
	}

	if result.ExitCode != 0 {
		output.WriteString(fmt.Sprintf("\n[Exit Code: %d]", result.ExitCode))
	}

	text := output.String()
	if len(text) > maxOutputBytes {
		text = text[:maxOutputBytes] + "\n... [Output truncated]"
	}
	return text
}

// sftpClient returns the lazily created SFTP channel. Callers must hold s.mu.
func (s *Session) sftpClient() (*sftp.Client, error) {
	if s.sftp != nil {
		return s.sftp, nil
	}
	if s.conn == nil {
		return nil, ErrNotConnected
	}

	client, err := sftp.NewClient(s.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}
	s.sftp = client
	return s.sftp, nil
}

// Upload copies a local file to the remote host. Whole-file transfer, no
// resume.
func (s *Session) Upload(ctx context.Context, localPath, remotePath string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.sftpClient()
	if err != nil {
		return 0, err
	}

	local, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open local file: %w", err)
	}
	defer local.Close()

	remote, err := client.Create(remotePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create remote file: %w", err)
	}
	defer remote.Close()

	n, err := io.Copy(remote, local)
	if err != nil {
		return n, fmt.Errorf("failed to upload: %w", err)
	}
	return n, nil
}

// Download copies a remote file to the local filesystem.
func (s *Session) Download(ctx context.Context, remotePath, localPath string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.sftpClient()
	if err != nil {
		return 0, err
	}

	remote, err := client.Open(remotePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open remote file: %w", err)
	}
	defer remote.Close()

	local, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create local file: %w", err)
	}
	defer local.Close()

	n, err := io.Copy(local, remote)
	if err != nil {
		return n, fmt.Errorf("failed to download: %w", err)
	}
	return n, nil
}

// Status is a point-in-time snapshot of the session.
type Status struct {
	Configured bool
	Connected  bool
	Host       string
	Username   string
	Port       int
}

// Status returns the current connection state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Configured: s.cfg != nil,
		Connected:  s.conn != nil,
	}
	if s.cfg != nil {
		st.Host = s.cfg.Host
		st.Username = s.cfg.Username
		st.Port = s.cfg.Port
	}
	return st
}

// ConfigView returns the active config for the ssh://config resource, or
// nil when unconfigured.
func (s *Session) ConfigView() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg == nil {
		s.cfg = ConfigFromEnv()
	}
	if s.cfg == nil {
		return nil
	}
	view := *s.cfg
	return &view
}
