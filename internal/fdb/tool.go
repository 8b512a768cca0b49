// internal/fdb/tool.go

package fdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"customTools/internal/config"
	apperrors "customTools/internal/error"
	"customTools/internal/models"
	"customTools/internal/ssh"
	"customTools/internal/ui"
)

// Prompter is the operator's side of the conversation.
type Prompter interface {
	Ask(prompt string) (string, error)
	Confirm(question string) (bool, error)
}

type Acquirer interface {
	Acquire(ctx context.Context, host string) (ssh.Conn, error)
}

type Options struct {
	IPPrefix       string
	CommandTimeout time.Duration
	CacheTTL       time.Duration
}

// Searcher runs the two FDB lookup modes against the shared pool.
type Searcher struct {
	pool      Acquirer
	profile   config.DeviceProfile
	parser    *Parser
	cache     *Cache
	macdb     *MACDatabase
	inventory *Inventory
	prompt    Prompter
	out       io.Writer
	opts      Options
	logger    *slog.Logger
}

func NewSearcher(pool Acquirer, profile config.DeviceProfile, macdb *MACDatabase, inventory *Inventory,
	prompt Prompter, out io.Writer, opts Options, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if macdb == nil {
		macdb = NewMACDatabase()
	}
	if inventory == nil {
		inventory = NewInventory("", 0, logger)
	}

	s := &Searcher{
		pool:      pool,
		profile:   profile,
		parser:    NewParser(profile),
		macdb:     macdb,
		inventory: inventory,
		prompt:    prompt,
		out:       out,
		opts:      opts,
		logger:    logger,
	}
	s.cache = NewCache(opts.CacheTTL, s.fetchFDB, prompt, logger)
	return s
}

func (s *Searcher) Cache() *Cache {
	return s.cache
}

func (s *Searcher) Parser() *Parser {
	return s.parser
}

func (s *Searcher) fetchFDB(ctx context.Context, host string) (string, error) {
	conn, err := s.pool.Acquire(ctx, host)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(s.out, "Retrieving FDB info from %s...\n", host)
	res := ssh.Execute(ctx, conn, s.profile.FDBCommand, s.opts.CommandTimeout)
	if res.Outcome == models.OutcomeFailed {
		return "", apperrors.New(apperrors.CommandError, fmt.Sprintf("%s on %s failed", s.profile.FDBCommand, host), errors.New(res.Stderr))
	}
	return res.Stdout, nil
}

// Run shows the mode menu until the operator goes back.
func (s *Searcher) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(s.out)
		ui.Banner(s.out, "FDB Search - Mode Selection", 50)
		fmt.Fprintln(s.out, "1. Mode 1: Start with MAC address → Search Switches")
		fmt.Fprintln(s.out, "2. Mode 2: Start with Switch/Port → Identify Device")
		fmt.Fprintln(s.out, "3. Back to main menu")

		choice, err := s.prompt.Ask("Select mode (1/2/3): ")
		if err != nil {
			return eofIsDone(err)
		}

		switch choice {
		case "1":
			err = s.MACSearch(ctx)
		case "2":
			err = s.PortSearch(ctx)
		case "3":
			return nil
		default:
			ui.Warn(s.out, "Invalid choice. Please select 1, 2, or 3.")
			continue
		}
		if err != nil {
			return eofIsDone(err)
		}
	}
}

func eofIsDone(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// MACSearch is mode 1: MAC address → switch port.
func (s *Searcher) MACSearch(ctx context.Context) error {
	for {
		mac, err := s.prompt.Ask("Enter the MAC address (blank to go back): ")
		if err != nil {
			return err
		}
		if mac == "" {
			return nil
		}

		if s.macdb.Len() > 0 {
			vendor, ok := s.macdb.Lookup(mac)
			if !ok {
				ui.Warn(s.out, "No match found in the database.")
				continue
			}
			fmt.Fprintf(s.out, "Database match found: %s\n", vendor)
		}

		s.printInventoryItem(mac)

		for {
			suffix, err := s.prompt.Ask("Enter the last 2 octets of the IP address: ")
			if err != nil {
				return err
			}
			host := s.opts.IPPrefix + suffix

			if err := s.showMACOnSwitch(ctx, host, mac); err != nil {
				ui.Error(s.out, "An error occurred: %v", err)
			}

			again, err := s.prompt.Confirm("Do you want to try another IP for this MAC address (y/n)?")
			if err != nil {
				return err
			}
			if !again {
				break
			}
		}

		again, err := s.prompt.Confirm("Do you want to check another MAC address (y/n)?")
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (s *Searcher) printInventoryItem(mac string) {
	item, ok := s.inventory.FindByMAC(mac)
	if !ok {
		fmt.Fprintln(s.out, "\nDevice not found in inventory CSV.")
		fmt.Fprintln(s.out)
		return
	}
	fmt.Fprintln(s.out)
	ui.Success(s.out, "Device Found in Inventory:")
	fmt.Fprintf(s.out, "  Device Name: %s\n", item.DeviceName)
	fmt.Fprintf(s.out, "  IP Address: %s\n", item.IPAddress)
	fmt.Fprintf(s.out, "  Model: %s\n", item.Model)
	fmt.Fprintf(s.out, "  MAC Address: %s\n", item.MACAddress)
	fmt.Fprintf(s.out, "  Switch/Port: %s\n\n", item.SwitchPort)
}

// Locate reads the FDB of host (through the cache) and returns the entry
// that carries mac.
func (s *Searcher) Locate(ctx context.Context, host, mac string) (models.FDBEntry, bool, error) {
	output, err := s.cache.Get(ctx, host, false)
	if err != nil {
		return models.FDBEntry{}, false, err
	}
	e, ok := s.parser.FindMAC(output, mac)
	return e, ok, nil
}

func (s *Searcher) showMACOnSwitch(ctx context.Context, host, mac string) error {
	output, err := s.cache.Get(ctx, host, false)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\nSearching FDB output:")
	for _, line := range strings.Split(output, "\n") {
		fmt.Fprintf(s.out, "  %s\n", strings.TrimRight(line, "\r"))
	}

	e, ok := s.parser.FindMAC(output, mac)
	if !ok || e.Port == "" {
		fmt.Fprintln(s.out)
		ui.Warn(s.out, "MAC address not found in the switch's FDB.")
		return nil
	}
	fmt.Fprintf(s.out, "\nMatching line: %s\n", e.Line)
	s.logger.Info("mac located", "mac", mac, "host", host, "port", e.Port, "vlan", e.VLAN)

	conn, err := s.pool.Acquire(ctx, host)
	if err != nil {
		return err
	}
	for _, command := range []string{
		config.PortCommand(s.profile.PortInfoCommand, e.Port),
		s.profile.NeighborsCommand,
		config.PortCommand(s.profile.PortDescriptionCommand, e.Port),
	} {
		if command == "" {
			continue
		}
		s.showCommand(ctx, conn, command)
	}
	return nil
}

func (s *Searcher) showCommand(ctx context.Context, conn ssh.Conn, command string) {
	fmt.Fprintf(s.out, "\n%s\n", ui.TitleStyle.Render(command))
	res := ssh.Execute(ctx, conn, command, s.opts.CommandTimeout)
	fmt.Fprintln(s.out, res.Stdout)
	if res.Stderr != "" {
		ui.Error(s.out, "ERROR: %s", res.Stderr)
	}
}

// PortSearch is mode 2: switch and port → attached devices.
func (s *Searcher) PortSearch(ctx context.Context) error {
	for {
		host, err := s.prompt.Ask(fmt.Sprintf("Enter the switch IP address (e.g., %s1.1, blank to go back): ", s.opts.IPPrefix))
		if err != nil {
			return err
		}
		if host == "" {
			return nil
		}
		port, err := s.prompt.Ask("Enter the port number: ")
		if err != nil {
			return err
		}

		if err := s.showDevicesOnPort(ctx, host, port); err != nil {
			ui.Error(s.out, "An error occurred: %v", err)
		}

		fmt.Fprintln(s.out)
		again, err := s.prompt.Confirm("Do you want to check another port (y/n)?")
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (s *Searcher) showDevicesOnPort(ctx context.Context, host, port string) error {
	output, err := s.cache.Get(ctx, host, false)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\nSearching FDB output:")
	for _, line := range strings.Split(output, "\n") {
		fmt.Fprintf(s.out, "  %s\n", strings.TrimRight(line, "\r"))
	}

	entries := s.parser.MACsOnPort(output, port)
	if len(entries) == 0 {
		ui.Warn(s.out, "No MAC addresses found on port %s", port)
		return nil
	}
	fmt.Fprintln(s.out)
	ui.Success(s.out, "Found %d MAC address(es) on port %s:", len(entries), port)

	if s.profile.PortDescriptionCommand != "" {
		conn, err := s.pool.Acquire(ctx, host)
		if err != nil {
			return err
		}
		s.showCommand(ctx, conn, config.PortCommand(s.profile.PortDescriptionCommand, port))
	}

	for _, e := range entries {
		fmt.Fprintf(s.out, "\n  MAC: %s", e.MAC)
		if e.VLAN != "" {
			fmt.Fprintf(s.out, " (VLAN %s)", e.VLAN)
		}
		fmt.Fprintln(s.out)

		item, ok := s.inventory.FindByMAC(e.MAC)
		if !ok {
			fmt.Fprintln(s.out, "    Not found in inventory")
			continue
		}
		fmt.Fprintf(s.out, "    Device Name (Column B): %s\n", item.DeviceName)
		fmt.Fprintf(s.out, "    IP Address (Column C): %s\n", item.IPAddress)
		fmt.Fprintf(s.out, "    MAC Address (Column E): %s (verified)\n", item.MACAddress)
	}
	return nil
}
