package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// AppDirName is the per-user directory holding config and logs.
const AppDirName = "WinCache"

// ErrProtectedPath is returned when a target root covers a protected path.
var ErrProtectedPath = errors.New("target root covers a protected path")

// Config is the on-disk configuration.
type Config struct {
	Engine  EngineConfig   `yaml:"engine"`
	Logging LoggingConfig  `yaml:"logging"`
	Clean   CleanConfig    `yaml:"clean"`
	Targets []TargetConfig `yaml:"targets,omitempty"`
}

type EngineConfig struct {
	BatchSize      int    `yaml:"batch_size"`
	CommandTimeout string `yaml:"command_timeout"`
	SpaceVolume    string `yaml:"space_volume"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type CleanConfig struct {
	ExcludePatterns []string `yaml:"exclude_patterns"`
	ProtectedPaths  []string `yaml:"protected_paths"`
}

// TargetConfig declares a custom target. A custom target whose ID matches a
// built-in one replaces it.
type TargetConfig struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name,omitempty"`
	Description   string   `yaml:"description,omitempty"`
	Category      string   `yaml:"category,omitempty"`
	Kind          string   `yaml:"kind,omitempty"`
	Paths         []string `yaml:"paths,omitempty"`
	Patterns      []string `yaml:"patterns,omitempty"`
	Command       string   `yaml:"command,omitempty"`
	Args          []string `yaml:"args,omitempty"`
	Timeout       string   `yaml:"timeout,omitempty"`
	RequiresAdmin bool     `yaml:"requires_admin,omitempty"`
}

// Dir returns the per-user application directory.
func Dir() string {
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		return filepath.Join(local, AppDirName)
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, strings.ToLower(AppDirName))
	}
	return AppDirName
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			BatchSize:      engine.DefaultBatchSize,
			CommandTimeout: engine.DefaultCommandTimeout.String(),
		},
		Logging: LoggingConfig{
			Level:      "INFO",
			Dir:        filepath.Join(Dir(), "logs"),
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Clean: CleanConfig{
			ExcludePatterns: []string{"*.lock"},
			ProtectedPaths:  GetNeverDeletePaths(),
		},
	}
}

// Load reads the configuration at path. An empty path or a missing file
// yields the defaults; fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func Validate(cfg *Config) error {
	if cfg.Engine.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", cfg.Engine.BatchSize)
	}
	if cfg.Engine.CommandTimeout != "" {
		d, err := time.ParseDuration(cfg.Engine.CommandTimeout)
		if err != nil {
			return fmt.Errorf("invalid command timeout: %s", cfg.Engine.CommandTimeout)
		}
		if d <= 0 {
			return fmt.Errorf("command timeout must be positive, got %s", d)
		}
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[strings.ToUpper(cfg.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}
	if cfg.Logging.MaxSizeMB <= 0 || cfg.Logging.MaxSizeMB > 1000 {
		return fmt.Errorf("log max size must be between 1MB and 1000MB, got %d", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups < 0 || cfg.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("log retention must not be negative")
	}

	for _, path := range cfg.Clean.ProtectedPaths {
		clean := filepath.Clean(path)
		if path == "" || clean == "." {
			return fmt.Errorf("invalid protected path: %q", path)
		}
	}

	seen := map[string]bool{}
	for i, tc := range cfg.Targets {
		t, err := tc.Target()
		if err != nil {
			return fmt.Errorf("target %d: %w", i+1, err)
		}
		if err := t.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(t.ID)
		if seen[key] {
			return fmt.Errorf("duplicate target id %q", t.ID)
		}
		seen[key] = true
		if err := CheckProtected(t, cfg.Clean.ProtectedPaths); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the configuration to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// CommandTimeout returns the default timeout for external commands.
func (cfg *Config) CommandTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.Engine.CommandTimeout)
	if err != nil || d <= 0 {
		return engine.DefaultCommandTimeout
	}
	return d
}

// ResolveTargets returns the built-in catalog merged with the custom
// targets. Custom targets replace built-ins with the same ID and are
// otherwise appended in file order.
func (cfg *Config) ResolveTargets() ([]engine.Target, error) {
	builtin := GetCleanTargets()
	timeout := cfg.CommandTimeout()

	var custom []engine.Target
	for i, tc := range cfg.Targets {
		t, err := tc.Target()
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i+1, err)
		}
		custom = append(custom, t)
	}

	out := make([]engine.Target, 0, len(builtin)+len(custom))
	used := make([]bool, len(custom))
	for _, b := range builtin {
		for j, c := range custom {
			if !used[j] && strings.EqualFold(c.ID, b.ID) {
				b, used[j] = c, true
				break
			}
		}
		out = append(out, b)
	}
	for j, c := range custom {
		if !used[j] {
			out = append(out, c)
		}
	}

	for i := range out {
		if cmd := out[i].Command; cmd != nil && cmd.Timeout == 0 {
			withTimeout := *cmd
			withTimeout.Timeout = timeout
			out[i].Command = &withTimeout
		}
	}
	return out, nil
}

// Target converts the declaration into an engine target, expanding
// environment variables in paths.
func (tc TargetConfig) Target() (engine.Target, error) {
	kind, err := engine.ParseKind(strings.ToLower(tc.Kind))
	if err != nil {
		return engine.Target{}, err
	}
	if tc.Kind == "" && tc.Command != "" && len(tc.Paths) == 0 {
		kind = engine.ExternalCommand
	}

	t := engine.Target{
		ID:            tc.ID,
		DisplayName:   tc.Name,
		Description:   tc.Description,
		Category:      tc.Category,
		Kind:          kind,
		Patterns:      tc.Patterns,
		RequiresAdmin: tc.RequiresAdmin,
	}
	if t.Category == "" {
		t.Category = "custom"
	}
	for _, p := range tc.Paths {
		t.Paths = append(t.Paths, expand(p))
	}
	if kind == engine.ExternalCommand {
		cmd := &engine.Command{Name: expand(tc.Command), Args: tc.Args}
		if tc.Timeout != "" {
			d, err := time.ParseDuration(tc.Timeout)
			if err != nil {
				return engine.Target{}, fmt.Errorf("%s: invalid timeout %q", tc.ID, tc.Timeout)
			}
			cmd.Timeout = d
		}
		t.Command = cmd
	}
	return t, nil
}

// CheckProtected rejects a target whose root is a protected path or one of
// its ancestors. Roots below a protected path are allowed.
func CheckProtected(t engine.Target, protected []string) error {
	for _, root := range t.Paths {
		base := globBase(root)
		for _, p := range protected {
			if p == "" {
				continue
			}
			if isWithin(base, p) {
				return fmt.Errorf("%w: %s root %s covers %s", ErrProtectedPath, t.ID, root, p)
			}
		}
	}
	return nil
}

// globBase returns the longest leading part of path free of glob
// metacharacters.
func globBase(path string) string {
	path = filepath.Clean(path)
	idx := strings.IndexAny(path, "*?[")
	if idx < 0 {
		return path
	}
	return filepath.Dir(path[:idx] + "x")
}

// isWithin reports whether child equals parent or lies below it.
func isWithin(parent, child string) bool {
	parent, child = filepath.Clean(parent), filepath.Clean(child)
	if runtime.GOOS == "windows" {
		parent, child = strings.ToLower(parent), strings.ToLower(child)
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
