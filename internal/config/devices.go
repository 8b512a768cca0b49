// internal/config/devices.go

package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	apperrors "customTools/internal/error"

	"gopkg.in/ini.v1"
)

const DefaultDevicesFileName = "devices.ini"

// DeviceProfile describes how one switch family prints its forwarding table
// and which commands the tools send to it. Field indexes are zero based;
// negative indexes count from the end of the line (-1 is the last field).
type DeviceProfile struct {
	Family                 string
	FDBCommand             string
	MACField               int
	PortField              int
	VLANField              int
	HasVLAN                bool
	PortInfoCommand        string
	PortDescriptionCommand string
	NeighborsCommand       string
	BackupCommand          string
	BackupMethod           string
	BackupRemotePath       string
}

const (
	BackupMethodCommand = "command"
	BackupMethodSFTP    = "sftp"
	BackupMethodSCP     = "scp"
)

// PortCommand substitutes {port} in a command template.
func PortCommand(template, port string) string {
	return strings.ReplaceAll(template, "{port}", port)
}

func builtinProfiles() map[string]DeviceProfile {
	return map[string]DeviceProfile{
		"extreme": {
			Family:                 "extreme",
			FDBCommand:             "show fdb",
			MACField:               0,
			PortField:              -1,
			VLANField:              1,
			HasVLAN:                true,
			PortInfoCommand:        "show ports {port} information",
			PortDescriptionCommand: "show ports {port} description",
			NeighborsCommand:       "show lldp neighbors",
			BackupCommand:          "show configuration",
			BackupMethod:           BackupMethodCommand,
		},
		"cisco": {
			Family:                 "cisco",
			FDBCommand:             "show mac address-table",
			MACField:               1,
			PortField:              -1,
			VLANField:              0,
			HasVLAN:                true,
			PortInfoCommand:        "show interfaces {port}",
			PortDescriptionCommand: "show interfaces {port} description",
			NeighborsCommand:       "show lldp neighbors",
			BackupCommand:          "show running-config",
			BackupMethod:           BackupMethodCommand,
		},
	}
}

// Devices is the set of known device families.
type Devices struct {
	profiles map[string]DeviceProfile
}

// LoadDevices reads devices.ini on top of the built-in profiles. A missing
// file is created from the built-ins so operators have something to edit.
func LoadDevices(path string) (*Devices, error) {
	d := &Devices{profiles: builtinProfiles()}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := d.Save(path); err != nil {
			return d, apperrors.New(apperrors.FileError, "failed to write device profiles template", err)
		}
		return d, nil
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return nil, apperrors.New(apperrors.ConfigError, fmt.Sprintf("failed to parse %s", path), err)
	}

	for _, section := range cfg.Sections() {
		if strings.EqualFold(section.Name(), ini.DefaultSection) {
			continue
		}
		name := strings.ToLower(section.Name())

		base, ok := d.profiles[name]
		if !ok {
			base = d.profiles["extreme"]
		}
		base.Family = name
		base.FDBCommand = section.Key("fdb_command").MustString(base.FDBCommand)
		base.MACField = section.Key("mac_field").MustInt(base.MACField)
		base.PortField = section.Key("port_field").MustInt(base.PortField)
		if section.HasKey("vlan_field") {
			if raw := strings.ToLower(section.Key("vlan_field").String()); raw == "none" || raw == "" {
				base.HasVLAN = false
			} else {
				base.VLANField = section.Key("vlan_field").MustInt(base.VLANField)
				base.HasVLAN = true
			}
		}
		base.PortInfoCommand = section.Key("port_info_command").MustString(base.PortInfoCommand)
		base.PortDescriptionCommand = section.Key("port_description_command").MustString(base.PortDescriptionCommand)
		base.NeighborsCommand = section.Key("neighbors_command").MustString(base.NeighborsCommand)
		base.BackupCommand = section.Key("backup_command").MustString(base.BackupCommand)
		method := section.Key("backup_method")
		method.SetValue(strings.ToLower(strings.TrimSpace(method.String())))
		base.BackupMethod = method.In(base.BackupMethod,
			[]string{BackupMethodCommand, BackupMethodSFTP, BackupMethodSCP})
		base.BackupRemotePath = section.Key("backup_remote_path").MustString(base.BackupRemotePath)

		d.profiles[name] = base
	}

	return d, nil
}

// Profile returns the named family or a ValidationError listing the known ones.
func (d *Devices) Profile(family string) (DeviceProfile, error) {
	p, ok := d.profiles[strings.ToLower(family)]
	if !ok {
		return DeviceProfile{}, apperrors.New(apperrors.ValidationError,
			fmt.Sprintf("unknown device family %q (known: %s)", family, strings.Join(d.Families(), ", ")), nil)
	}
	return p, nil
}

func (d *Devices) Families() []string {
	names := make([]string, 0, len(d.profiles))
	for name := range d.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes every profile to an ini file.
func (d *Devices) Save(path string) error {
	cfg := ini.Empty()
	for _, name := range d.Families() {
		p := d.profiles[name]
		section, err := cfg.NewSection(name)
		if err != nil {
			return err
		}
		section.Key("fdb_command").SetValue(p.FDBCommand)
		section.Key("mac_field").SetValue(fmt.Sprint(p.MACField))
		section.Key("port_field").SetValue(fmt.Sprint(p.PortField))
		if p.HasVLAN {
			section.Key("vlan_field").SetValue(fmt.Sprint(p.VLANField))
		} else {
			section.Key("vlan_field").SetValue("none")
		}
		section.Key("port_info_command").SetValue(p.PortInfoCommand)
		section.Key("port_description_command").SetValue(p.PortDescriptionCommand)
		section.Key("neighbors_command").SetValue(p.NeighborsCommand)
		section.Key("backup_command").SetValue(p.BackupCommand)
		section.Key("backup_method").SetValue(p.BackupMethod)
		section.Key("backup_remote_path").SetValue(p.BackupRemotePath)
	}
	return cfg.SaveTo(path)
}
