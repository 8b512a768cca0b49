// internal/selflookup/selflookup.go

package selflookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"customTools/internal/csvfile"
	"customTools/internal/models"
	"customTools/internal/ui"

	psnet "github.com/shirou/gopsutil/v3/net"
)

const HostnameColumn = "hostname"

type Prompter interface {
	Ask(prompt string) (string, error)
}

// Locator finds a MAC in a switch's forwarding table.
type Locator interface {
	Locate(ctx context.Context, host, mac string) (models.FDBEntry, bool, error)
}

// InterfaceLister returns the NICs of this machine.
type InterfaceLister func() ([]models.LocalInterface, error)

// LocalInterfaces lists interfaces that have a hardware address and are not
// loopback.
func LocalInterfaces() ([]models.LocalInterface, error) {
	stats, err := psnet.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	var out []models.LocalInterface
	for _, s := range stats {
		if s.HardwareAddr == "" || hasFlag(s.Flags, "loopback") {
			continue
		}
		iface := models.LocalInterface{Name: s.Name, HardwareAddr: s.HardwareAddr}
		for _, a := range s.Addrs {
			iface.Addrs = append(iface.Addrs, a.Addr)
		}
		out = append(out, iface)
	}
	return out, nil
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

type Options struct {
	// Dir holds the switches.csv listing where to look.
	Dir          string
	SwitchesFile string
}

// Tool answers "which switch port is this machine plugged into".
type Tool struct {
	locator    Locator
	interfaces InterfaceLister
	opts       Options
	prompt     Prompter
	out        io.Writer
	logger     *slog.Logger
}

func New(locator Locator, opts Options, prompt Prompter, out io.Writer, logger *slog.Logger) *Tool {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tool{
		locator:    locator,
		interfaces: LocalInterfaces,
		opts:       opts,
		prompt:     prompt,
		out:        out,
		logger:     logger,
	}
}

func (t *Tool) Run(ctx context.Context) error {
	ui.Banner(t.out, "Self Lookup - Find This Machine on the Network", 60)

	ifaces, err := t.interfaces()
	if err != nil {
		return err
	}
	if len(ifaces) == 0 {
		ui.Warn(t.out, "No network interfaces with a hardware address found.")
		return nil
	}

	for i, iface := range ifaces {
		fmt.Fprintf(t.out, "%d. %s  %s  %s\n", i+1, iface.Name, iface.HardwareAddr, strings.Join(iface.Addrs, ", "))
	}
	answer, err := t.prompt.Ask(fmt.Sprintf("Select interface (1-%d): ", len(ifaces)))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	idx, err := strconv.Atoi(answer)
	if err != nil || idx < 1 || idx > len(ifaces) {
		ui.Warn(t.out, "Invalid choice.")
		return nil
	}
	iface := ifaces[idx-1]

	created, err := csvfile.EnsureTemplates(t.opts.Dir, map[string]string{t.opts.SwitchesFile: csvfile.SwitchesTemplate})
	if err != nil {
		return err
	}
	if len(created) > 0 {
		ui.Warn(t.out, "Template files created: %s", strings.Join(created, ", "))
		fmt.Fprintf(t.out, "Location: %s\n", t.opts.Dir)
		fmt.Fprintln(t.out, "Please edit these files and run again.")
		return nil
	}
	hosts, err := csvfile.LoadColumn(filepath.Join(t.opts.Dir, t.opts.SwitchesFile), HostnameColumn)
	if err != nil {
		return err
	}

	hits := t.search(ctx, iface, hosts)
	fmt.Fprintln(t.out)
	if hits == 0 {
		ui.Warn(t.out, "%s was not found on any of %d switch(es).", iface.HardwareAddr, len(hosts))
	} else {
		ui.Success(t.out, "%s found on %d of %d switch(es).", iface.HardwareAddr, hits, len(hosts))
	}
	return nil
}

func (t *Tool) search(ctx context.Context, iface models.LocalInterface, hosts []string) int {
	fmt.Fprintf(t.out, "\nSearching for %s (%s) on %d switch(es)...\n", iface.HardwareAddr, iface.Name, len(hosts))

	hits := 0
	for _, host := range hosts {
		e, ok, err := t.locator.Locate(ctx, host, iface.HardwareAddr)
		switch {
		case err != nil:
			ui.Error(t.out, "  %s: %v", host, err)
			t.logger.Warn("self lookup failed", "host", host, "error", err)
		case !ok:
			fmt.Fprintf(t.out, "  %s: not found\n", host)
		default:
			hits++
			line := fmt.Sprintf("  %s: port %s", host, e.Port)
			if e.VLAN != "" {
				line += fmt.Sprintf(" (VLAN %s)", e.VLAN)
			}
			ui.Success(t.out, "%s", line)
			t.logger.Info("self lookup hit", "host", host, "port", e.Port, "mac", iface.HardwareAddr)
		}
	}
	return hits
}
