// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"customTools/internal/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultConfigName     = "customtools"
	DefaultConfigFileName = DefaultConfigName + ".yaml"
	DefaultFilePerms      = 0600
	EnvPrefix             = "CUSTOMTOOLS"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	SSH    SSHConfig    `mapstructure:"ssh"`
	Paths  PathsConfig  `mapstructure:"paths"`
	Bulk   BulkConfig   `mapstructure:"bulk"`
	FDB    FDBConfig    `mapstructure:"fdb"`
	Backup BackupConfig `mapstructure:"backup"`
	Update UpdateConfig `mapstructure:"update"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type SSHConfig struct {
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	BannerTimeout    time.Duration `mapstructure:"banner_timeout"`
	ProbeCommand     string        `mapstructure:"probe_command"`
	ProbeTimeout     time.Duration `mapstructure:"probe_timeout"`
	CommandTimeout   time.Duration `mapstructure:"command_timeout"`
	KnownHosts       string        `mapstructure:"known_hosts"`
	LegacyAlgorithms bool          `mapstructure:"legacy_algorithms"`
	KeepAlive        time.Duration `mapstructure:"keep_alive"`
}

type PathsConfig struct {
	Credentials string `mapstructure:"credentials"`
	Devices     string `mapstructure:"devices"`
}

type BulkConfig struct {
	Dir          string `mapstructure:"dir"`
	SwitchesFile string `mapstructure:"switches_file"`
	CommandsFile string `mapstructure:"commands_file"`
}

type FDBConfig struct {
	Dir                string        `mapstructure:"dir"`
	DeviceFamily       string        `mapstructure:"device_family"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	IPPrefix           string        `mapstructure:"ip_prefix"`
	MACDatabase        string        `mapstructure:"mac_database"`
	Inventory          string        `mapstructure:"inventory"`
	InventoryHeaderRow int           `mapstructure:"inventory_header_row"`
	SwitchesFile       string        `mapstructure:"switches_file"`
}

type BackupConfig struct {
	Dir          string `mapstructure:"dir"`
	SwitchesFile string `mapstructure:"switches_file"`
}

type UpdateConfig struct {
	ManifestURL  string        `mapstructure:"manifest_url"`
	ArchiveURL   string        `mapstructure:"archive_url"`
	ArchiveRoot  string        `mapstructure:"archive_root"`
	CacheFile    string        `mapstructure:"cache_file"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	CheckOnStart bool          `mapstructure:"check_on_start"`
}

var defaults = map[string]interface{}{
	"log.level": "INFO",
	"log.file":  "network_tool.log",

	"ssh.connect_timeout":   "10s",
	"ssh.banner_timeout":    "10s",
	"ssh.probe_command":     "show system",
	"ssh.probe_timeout":     "5s",
	"ssh.command_timeout":   "30s",
	"ssh.known_hosts":       "known_hosts",
	"ssh.legacy_algorithms": true,
	"ssh.keep_alive":        "30s",

	"paths.credentials": "credentials.txt",
	"paths.devices":     "devices.ini",

	"bulk.dir":           "BulkCommands",
	"bulk.switches_file": "switches.csv",
	"bulk.commands_file": "commands.csv",

	"fdb.dir":                  "FDBSearching",
	"fdb.device_family":        "extreme",
	"fdb.cache_ttl":            "15m",
	"fdb.ip_prefix":            "10.10.",
	"fdb.mac_database":         "macdatabase.txt",
	"fdb.inventory":            "inventory.csv",
	"fdb.inventory_header_row": 31,
	"fdb.switches_file":        "switches.csv",

	"backup.dir":           "Backups",
	"backup.switches_file": "switches.csv",

	"update.manifest_url":   "https://raw.githubusercontent.com/Payhn/CustomTools/main/versions.json",
	"update.archive_url":    "https://github.com/Payhn/CustomTools/archive/refs/heads/main.zip",
	"update.archive_root":   "CustomTools-main",
	"update.cache_file":     ".versions_cache.json",
	"update.cache_ttl":      "24h",
	"update.http_timeout":   "10s",
	"update.check_on_start": true,
}

// Manager owns the viper instance backing customtools.yaml.
type Manager struct {
	root       string
	configPath string
	v          *viper.Viper
	config     *Config
}

// NewManager creates a configuration manager rooted at the tools directory.
func NewManager(root string) *Manager {
	if root == "" {
		if wd, err := os.Getwd(); err == nil {
			root = wd
		} else {
			root = "."
		}
	}

	return &Manager{
		root:       root,
		configPath: filepath.Join(root, DefaultConfigFileName),
		config:     &Config{},
	}
}

// Load reads .env, customtools.yaml and CUSTOMTOOLS_* variables, in that
// order of increasing precedence. A missing config file is written out with
// the defaults.
func (m *Manager) Load() error {
	_ = godotenv.Load(filepath.Join(m.root, ".env"))

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(m.root)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	m.v = v

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := m.Save(); err != nil {
			return err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	m.config = cfg
	return nil
}

// Save writes the current settings (defaults included) to customtools.yaml.
func (m *Manager) Save() error {
	if m.v == nil {
		return errors.New("config not loaded")
	}
	if err := os.MkdirAll(m.root, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(m.configPath, DefaultFilePerms)
}

func (m *Manager) Get() *Config {
	return m.config
}

func (m *Manager) Root() string {
	return m.root
}

func (m *Manager) ConfigPath() string {
	return m.configPath
}

// Path resolves a configured path against the tools root.
func (m *Manager) Path(p string) string {
	return utils.Resolve(m.root, p)
}

// ToolPath resolves a file that lives inside a tool's folder.
func (m *Manager) ToolPath(toolDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(m.Path(toolDir), file)
}
