package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"os"
	"path/filepath"
	"testing"

	"customTools/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func newHostKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return key
}

func TestHostKeyTrustOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ssh", "known_hosts")
	d := NewDialer(models.Credential{Username: "admin", Password: "secret"}, Options{KnownHostsPath: path}, nil)

	callback, err := d.hostKeyCallback()
	require.NoError(t, err)

	remote := &net.TCPAddr{IP: net.ParseIP("10.10.1.1"), Port: 22}
	key := newHostKey(t)

	require.NoError(t, callback("10.10.1.1:22", remote, key))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "10.10.1.1 ssh-ed25519 ")

	// Same key again is accepted without a second line.
	require.NoError(t, callback("10.10.1.1:22", remote, key))
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	// A changed key is rejected.
	assert.Error(t, callback("10.10.1.1:22", remote, newHostKey(t)))
}

func TestHostKeyVerificationDisabled(t *testing.T) {
	d := NewDialer(models.Credential{}, Options{}, nil)
	callback, err := d.hostKeyCallback()
	require.NoError(t, err)
	assert.NoError(t, callback("sw1:22", &net.TCPAddr{}, newHostKey(t)))
}

func TestLegacyAlgorithmsIncludeCBC(t *testing.T) {
	cfg := legacyAlgorithms()
	assert.Contains(t, cfg.Ciphers, "aes128-cbc")
	assert.Contains(t, cfg.KeyExchanges, "diffie-hellman-group1-sha1")
}
