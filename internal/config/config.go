package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"softraster/internal/logging"
	"softraster/internal/snapshot"
)

// Backend names.
const (
	BackendHeadless = "headless"
	BackendTerminal = "terminal"
	BackendSSH      = "ssh"
)

// Config holds all configurable display and output settings.
type Config struct {
	Backend string `toml:"backend"`

	// Headless display resolution and window rectangle
	Width        int `toml:"width"`
	Height       int `toml:"height"`
	WindowWidth  int `toml:"window_width"`
	WindowHeight int `toml:"window_height"`

	// Frame loop
	FrameIntervalMS int    `toml:"frame_interval_ms"`
	MaxFrames       uint64 `toml:"max_frames"`

	// Snapshots (headless only)
	SnapshotDir     string `toml:"snapshot_dir"`
	SnapshotFormat  string `toml:"snapshot_format"`
	SnapshotEvery   uint64 `toml:"snapshot_every"`
	SnapshotWorkers int    `toml:"snapshot_workers"`

	// SSH server
	SSHAddr     string `toml:"ssh_addr"`
	HostKeyPath string `toml:"host_key"`

	LogLevel string `toml:"log_level"`
}

// Load reads a TOML config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config: parse %s: unknown key %q", path, undecoded[0].String())
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Backend     string
	Width       int
	Height      int
	MaxFrames   uint64
	SnapshotDir string
	Format      string
	SSHAddr     string
	LogLevel    string
}

// Resolve applies CLI flags, then fills any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Backend != "" {
		c.Backend = flags.Backend
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.MaxFrames > 0 {
		c.MaxFrames = flags.MaxFrames
	}
	if flags.SnapshotDir != "" {
		c.SnapshotDir = flags.SnapshotDir
	}
	if flags.Format != "" {
		c.SnapshotFormat = flags.Format
	}
	if flags.SSHAddr != "" {
		c.SSHAddr = flags.SSHAddr
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.Backend == "" {
		c.Backend = BackendHeadless
	}
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		c.WindowWidth, c.WindowHeight = c.Width, c.Height
	}
	if c.FrameIntervalMS <= 0 {
		c.FrameIntervalMS = 1000 / 60
	}
	if c.SnapshotFormat == "" {
		c.SnapshotFormat = string(snapshot.WebP)
	}
	if c.SnapshotEvery == 0 {
		c.SnapshotEvery = 60
	}
	if c.SSHAddr == "" {
		c.SSHAddr = ":2222"
	}
	if c.HostKeyPath == "" {
		c.HostKeyPath = "host_key"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendHeadless, BackendTerminal, BackendSSH:
	default:
		errs = append(errs, fmt.Errorf("config: unknown backend %q", c.Backend))
	}
	if _, err := snapshot.ParseFormat(c.SnapshotFormat); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Interval returns the frame delay.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}
