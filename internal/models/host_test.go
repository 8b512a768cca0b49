package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHost(t *testing.T) {
	tests := []struct {
		in   string
		ip   string
		port string
	}{
		{"10.10.1.1", "10.10.1.1", "22"},
		{" sw-core.example.net ", "sw-core.example.net", "22"},
		{"10.10.1.1:2222", "10.10.1.1", "2222"},
		{"[fe80::1]:22", "fe80::1", "22"},
	}

	for _, tt := range tests {
		h := ParseHost(tt.in)
		assert.Equal(t, tt.ip, h.IP, tt.in)
		assert.Equal(t, tt.port, h.Port, tt.in)
	}
	assert.Equal(t, "10.10.1.1:22", ParseHost("10.10.1.1").Address())
}

func TestRunSummaryAdd(t *testing.T) {
	var s RunSummary
	s.Add(HostStats{Host: "a", Total: 3, Success: 2, Errors: 1})
	s.Add(HostStats{Host: "b", ConnectionFailed: true})

	assert.Equal(t, 2, s.Processed)
	assert.Equal(t, 1, s.ConnectionFailures)
	assert.Equal(t, 3, s.TotalCommands)
	assert.Equal(t, 2, s.TotalSuccess)
	assert.Equal(t, 1, s.TotalErrors)
}

func TestManifestVersionDefaults(t *testing.T) {
	var nilManifest *Manifest
	assert.Equal(t, "0.0.0", nilManifest.Version("BulkCommands"))

	m := NewManifest()
	m.Tools["BulkCommands"] = "1.2.0"
	assert.Equal(t, "1.2.0", m.Version("BulkCommands"))
	assert.Equal(t, "0.0.0", m.Version("FDBSearching"))
}
