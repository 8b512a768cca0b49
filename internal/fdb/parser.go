// internal/fdb/parser.go

package fdb

import (
	"regexp"
	"strings"

	"customTools/internal/config"
	"customTools/internal/models"
)

var (
	macPattern = regexp.MustCompile(`^(?i:` +
		`[0-9a-f]{2}(?:[:-][0-9a-f]{2}){5}` +
		`|[0-9a-f]{4}\.[0-9a-f]{4}\.[0-9a-f]{4}` +
		`|[0-9a-f]{12})$`)
	macSeparators = strings.NewReplacer(":", "", "-", "", ".", "")
)

// IsMAC reports whether token is a MAC address in colon, dash, Cisco dotted
// or bare twelve-digit form.
func IsMAC(token string) bool {
	return macPattern.MatchString(token)
}

// NormalizeMAC strips separators and lowercases.
func NormalizeMAC(mac string) string {
	return strings.ToLower(macSeparators.Replace(strings.TrimSpace(mac)))
}

// FormatMAC renders any accepted MAC form as aa:bb:cc:dd:ee:ff. Invalid
// input is returned unchanged.
func FormatMAC(mac string) string {
	n := NormalizeMAC(mac)
	if len(n) != 12 || !IsMAC(n) {
		return mac
	}
	parts := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		parts = append(parts, n[i:i+2])
	}
	return strings.Join(parts, ":")
}

// Parser reads forwarding-table output using a device family's field layout.
type Parser struct {
	profile config.DeviceProfile
}

func NewParser(profile config.DeviceProfile) *Parser {
	return &Parser{profile: profile}
}

func field(fields []string, idx int) string {
	if idx < 0 {
		idx = len(fields) + idx
	}
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

// ParseLine extracts MAC, port and VLAN from one line. ok is false for
// headers and other lines whose MAC field is not a MAC address.
func (p *Parser) ParseLine(line string) (models.FDBEntry, bool) {
	fields := strings.Fields(line)
	mac := field(fields, p.profile.MACField)
	if mac == "" || !IsMAC(mac) {
		return models.FDBEntry{}, false
	}

	e := models.FDBEntry{
		MAC:  mac,
		Port: field(fields, p.profile.PortField),
		Line: line,
	}
	if p.profile.HasVLAN {
		e.VLAN = field(fields, p.profile.VLANField)
	}
	return e, true
}

// Entries parses every MAC-bearing line of output.
func (p *Parser) Entries(output string) []models.FDBEntry {
	var entries []models.FDBEntry
	for _, line := range strings.Split(output, "\n") {
		if e, ok := p.ParseLine(strings.TrimRight(line, "\r")); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// FindMAC returns the last line whose separator-free text contains mac.
// The port is taken from the family's port field of that line.
func (p *Parser) FindMAC(output, mac string) (models.FDBEntry, bool) {
	needle := NormalizeMAC(mac)
	if needle == "" {
		return models.FDBEntry{}, false
	}

	var (
		e     models.FDBEntry
		found bool
	)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.Contains(NormalizeMAC(line), needle) {
			continue
		}
		fields := strings.Fields(line)
		e = models.FDBEntry{
			MAC:  field(fields, p.profile.MACField),
			Port: field(fields, p.profile.PortField),
			Line: line,
		}
		if p.profile.HasVLAN {
			e.VLAN = field(fields, p.profile.VLANField)
		}
		found = true
	}
	return e, found
}

// MACsOnPort returns the entries learned on exactly port.
func (p *Parser) MACsOnPort(output, port string) []models.FDBEntry {
	port = strings.TrimSpace(port)
	var matches []models.FDBEntry
	for _, e := range p.Entries(output) {
		if e.Port == port {
			matches = append(matches, e)
		}
	}
	return matches
}
