package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeHost(t *testing.T) {
	assert.Equal(t, "10.10.1.1", SanitizeHost("10.10.1.1"))
	assert.Equal(t, "fe80__1_22", SanitizeHost("fe80::1:22"))
	assert.Equal(t, "a_b_c", SanitizeHost("a/b\\c"))
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "FDBSearching")
	require.NoError(t, os.MkdirAll(sub, 0755))

	// no versions.json anywhere: the directory itself is used
	assert.Equal(t, sub, FindRoot(sub))

	require.NoError(t, os.WriteFile(filepath.Join(root, VersionsFileName), []byte(`{"tools":{}}`), 0644))
	assert.Equal(t, root, FindRoot(root))
	assert.Equal(t, root, FindRoot(sub))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/opt/tools", "credentials.txt"), Resolve("/opt/tools", "credentials.txt"))
	abs := filepath.Join(t.TempDir(), "x.csv")
	assert.Equal(t, abs, Resolve("/opt/tools", abs))
	assert.Equal(t, "", Resolve("/opt/tools", ""))
}

func TestToSFTPPath(t *testing.T) {
	assert.Equal(t, "/config/primary.cfg", ToSFTPPath("/config//primary.cfg"))
	assert.Equal(t, "", ToSFTPPath(""))
}
