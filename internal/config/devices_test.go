package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "customTools/internal/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDevicesCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultDevicesFileName)

	d, err := LoadDevices(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cisco", "extreme"}, d.Families())

	_, err = os.Stat(path)
	require.NoError(t, err)

	// the written template round-trips to the same profiles
	again, err := LoadDevices(path)
	require.NoError(t, err)
	want, _ := d.Profile("extreme")
	got, _ := again.Profile("extreme")
	assert.Equal(t, want, got)
}

func TestLoadDevicesOverridesAndNewFamilies(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultDevicesFileName)
	content := `
[EXTREME]
fdb_command = show fdb ports all

[aruba]
fdb_command = show mac-address
mac_field = 0
port_field = 1
vlan_field = none
backup_method = sftp
backup_remote_path = /cfg/running-config
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	d, err := LoadDevices(path)
	require.NoError(t, err)

	extreme, err := d.Profile("Extreme")
	require.NoError(t, err)
	assert.Equal(t, "show fdb ports all", extreme.FDBCommand)
	assert.Equal(t, -1, extreme.PortField, "unset keys keep the built-in value")

	aruba, err := d.Profile("aruba")
	require.NoError(t, err)
	assert.Equal(t, "show mac-address", aruba.FDBCommand)
	assert.Equal(t, 1, aruba.PortField)
	assert.False(t, aruba.HasVLAN)
	assert.Equal(t, BackupMethodSFTP, aruba.BackupMethod)
	assert.Equal(t, "/cfg/running-config", aruba.BackupRemotePath)
	assert.Equal(t, "show lldp neighbors", aruba.NeighborsCommand, "new families inherit from extreme")
}

func TestLoadDevicesBackupMethodIgnoresCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultDevicesFileName)
	content := `
[cisco]
backup_method = SCP
backup_remote_path = flash:/config.text

[extreme]
backup_method = ftp
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	d, err := LoadDevices(path)
	require.NoError(t, err)

	cisco, err := d.Profile("cisco")
	require.NoError(t, err)
	assert.Equal(t, BackupMethodSCP, cisco.BackupMethod)

	extreme, err := d.Profile("extreme")
	require.NoError(t, err)
	assert.Equal(t, BackupMethodCommand, extreme.BackupMethod, "unknown methods fall back")
}

func TestProfileUnknownFamily(t *testing.T) {
	d := &Devices{profiles: builtinProfiles()}
	_, err := d.Profile("juniper")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ValidationError))
	assert.Contains(t, err.Error(), "cisco, extreme")
}

func TestPortCommand(t *testing.T) {
	assert.Equal(t, "show ports 12 information", PortCommand("show ports {port} information", "12"))
}
