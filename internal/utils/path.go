package utils

import (
	"path"
	"runtime"
	"strings"
)

// ToSFTPPath converts a path typed on the local machine to the forward-slash
// form expected by SFTP/SCP servers on switches.
func ToSFTPPath(p string) string {
	if runtime.GOOS == "windows" {
		p = strings.ReplaceAll(p, "\\", "/")
	}
	if p == "" {
		return p
	}
	return path.Clean(p)
}

// SanitizeHost makes a host identifier safe to use as a directory name.
func SanitizeHost(host string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return r.Replace(strings.TrimSpace(host))
}
