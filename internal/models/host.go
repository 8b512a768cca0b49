// internal/models/host.go

package models

import (
	"net"
	"strconv"
	"strings"
)

const DefaultSSHPort = "22"

// Host is a switch address as typed by the operator or read from a CSV.
// Name keeps the original string; it is the connection pool key.
type Host struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
	Port string `json:"port"`
}

// ParseHost accepts "10.10.1.1", "sw1.example.net", "10.10.1.1:2222" and "[fe80::1]:22".
func ParseHost(name string) Host {
	name = strings.TrimSpace(name)
	h := Host{Name: name, IP: name, Port: DefaultSSHPort}

	if host, port, err := net.SplitHostPort(name); err == nil {
		if _, convErr := strconv.Atoi(port); convErr == nil {
			h.IP = host
			h.Port = port
		}
	}
	return h
}

// Address returns host:port suitable for net.Dial.
func (h Host) Address() string {
	return net.JoinHostPort(h.IP, h.Port)
}
