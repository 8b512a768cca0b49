// internal/ssh/ssh_client.go
package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"customTools/internal/models"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Conn is one authenticated session to a switch.
type Conn interface {
	// Run executes a single command and returns its captured output.
	// A non-zero remote exit status is reported as *ssh.ExitError.
	Run(ctx context.Context, command string) (stdout, stderr string, err error)
	Close() error
}

// Dialer opens new connections. The pool only talks to this interface.
type Dialer interface {
	Dial(ctx context.Context, host string) (Conn, error)
}

type Options struct {
	ConnectTimeout time.Duration
	BannerTimeout  time.Duration
	// KnownHostsPath empty disables host key verification.
	KnownHostsPath   string
	LegacyAlgorithms bool
	KeepAlive        time.Duration
}

// SSHClient is the production Conn backed by golang.org/x/crypto/ssh.
type SSHClient struct {
	host     models.Host
	client   *ssh.Client
	stopChan chan struct{}
	once     sync.Once
}

// ClientDialer authenticates with the shared operator credential.
type ClientDialer struct {
	credential models.Credential
	opts       Options
	logger     *slog.Logger
	hostKeysMu sync.Mutex
}

func NewDialer(credential models.Credential, opts Options, logger *slog.Logger) *ClientDialer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ClientDialer{
		credential: credential,
		opts:       opts,
		logger:     logger,
	}
}

func (d *ClientDialer) Dial(ctx context.Context, name string) (Conn, error) {
	host := models.ParseHost(name)

	hostKeyCallback, err := d.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	password := d.credential.Password
	config := &ssh.ClientConfig{
		User: d.credential.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			// Extreme and older Cisco images only offer keyboard-interactive.
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: hostKeyCallback,
		Timeout:         d.opts.ConnectTimeout,
	}
	if d.opts.LegacyAlgorithms {
		config.Config = legacyAlgorithms()
	}

	dialer := net.Dialer{Timeout: d.opts.ConnectTimeout}
	netConn, err := dialer.DialContext(ctx, "tcp", host.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", host.Address(), err)
	}

	// The banner and handshake share one deadline.
	if d.opts.BannerTimeout > 0 {
		_ = netConn.SetDeadline(time.Now().Add(d.opts.BannerTimeout))
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, host.Address(), config)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", host.Address(), err)
	}
	_ = netConn.SetDeadline(time.Time{})

	c := &SSHClient{
		host:     host,
		client:   ssh.NewClient(sshConn, chans, reqs),
		stopChan: make(chan struct{}),
	}
	if d.opts.KeepAlive > 0 {
		go c.keepAliveLoop(d.opts.KeepAlive, d.logger)
	}

	d.logger.Debug("ssh connection established", "host", host.Name, "address", host.Address())
	return c, nil
}

// hostKeyCallback accepts unknown hosts and appends their key to known_hosts.
// A host whose key changed is rejected.
func (d *ClientDialer) hostKeyCallback() (ssh.HostKeyCallback, error) {
	path := d.opts.KnownHostsPath
	if path == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, nil, 0600); err != nil {
			return nil, fmt.Errorf("failed to create known_hosts file %s: %w", path, err)
		}
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		d.hostKeysMu.Lock()
		defer d.hostKeysMu.Unlock()

		verify, err := knownhosts.New(path)
		if err != nil {
			return fmt.Errorf("failed to read known_hosts file %s: %w", path, err)
		}

		err = verify(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) == 0 {
			return d.rememberHostKey(path, hostname, key)
		}
		return err
	}, nil
}

func (d *ClientDialer) rememberHostKey(path, hostname string, key ssh.PublicKey) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("failed to open known_hosts file %s: %w", path, err)
	}
	defer f.Close()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write known_hosts file %s: %w", path, err)
	}

	d.logger.Info("added new host key", "host", hostname, "fingerprint", ssh.FingerprintSHA256(key))
	return nil
}

// legacyAlgorithms extends the defaults with CBC ciphers and SHA1 key
// exchanges still found on older switch firmware.
func legacyAlgorithms() ssh.Config {
	return ssh.Config{
		Ciphers: []string{
			"aes128-gcm@openssh.com", "aes256-gcm@openssh.com",
			"chacha20-poly1305@openssh.com",
			"aes128-ctr", "aes192-ctr", "aes256-ctr",
			"aes128-cbc", "3des-cbc",
		},
		KeyExchanges: []string{
			"curve25519-sha256", "curve25519-sha256@libssh.org",
			"ecdh-sha2-nistp256", "ecdh-sha2-nistp384", "ecdh-sha2-nistp521",
			"diffie-hellman-group14-sha256",
			"diffie-hellman-group14-sha1", "diffie-hellman-group1-sha1",
		},
	}
}

func (c *SSHClient) Run(ctx context.Context, command string) (string, string, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return "", "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	if err := session.Start(command); err != nil {
		return "", "", fmt.Errorf("failed to start command: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	select {
	case err := <-done:
		return stdout.String(), stderr.String(), err
	case <-ctx.Done():
		// Closing the channel unblocks Wait; the buffers are abandoned.
		session.Close()
		return "", "", ctx.Err()
	}
}

// Client exposes the underlying connection for SFTP, SCP and PTY sessions.
func (c *SSHClient) Client() *ssh.Client {
	return c.client
}

func (c *SSHClient) Host() models.Host {
	return c.host
}

func (c *SSHClient) Close() error {
	var err error
	c.once.Do(func() {
		close(c.stopChan)
		err = c.client.Close()
	})
	return err
}

// keepAliveLoop stops on the first failure; the pool probe notices the
// dead connection on the next Acquire.
func (c *SSHClient) keepAliveLoop(interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, _, err := c.client.SendRequest("keepalive@openssh.com", true, nil); err != nil {
				logger.Debug("keepalive failed", "host", c.host.Name, "error", err)
				return
			}
		case <-c.stopChan:
			return
		}
	}
}

// IsExitStatus reports whether err only carries the remote command's exit
// status, meaning the command did run.
func IsExitStatus(err error) bool {
	var exitErr *ssh.ExitError
	var missing *ssh.ExitMissingError
	return errors.As(err, &exitErr) || errors.As(err, &missing)
}
