package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/docvault/internal/util"
	"gopkg.in/yaml.v3"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultDataDir      = "./data"
	DefaultAccountsDir  = "users"
	DefaultDocumentsDir = "scrolls"
	DefaultAuditLog     = "event_logs.jsonl"

	DefaultLogLvl = util.InfoLevel

	// DefaultHashIterations is the PBKDF2 iteration count for new passwords
	DefaultHashIterations = 120000

	// DefaultPreviewChars is the number of runes shown by a document preview
	DefaultPreviewChars = 500

	DefaultRootAccountID = "root"
	DefaultRootUsername  = "rootadmin"
	DefaultRootPassword  = "rootpass"
)

// Verbosity levels as given on the command line (-v 1..5). ConfigOverride.LogLvl
// takes these; Config.LogLvl holds the matching util.LogLevel.
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Config contains runtime configuration values for the vault.
type Config struct {
	StorageOptions

	LogLvl         util.LogLevel `validate:"gte=0,lte=4"`             // Internal log level (Default info)
	HashIterations int           `validate:"gte=1000,lte=2147483647"` // PBKDF2 iterations for new passwords (Default 120000)
	PreviewChars   int           `validate:"gt=0"`                    // Preview window in runes (Default 500)
	RootAccountID  string        `validate:"required,recordid"`       // Id of the bootstrap admin (Default "root")
	RootUsername   string        `validate:"required"`                // Username of the bootstrap admin (Default "rootadmin")
	RootPassword   string        `validate:"required"`                // Only used when the root account is first created (Default "rootpass")
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
// LogLvl is given as CLI verbosity (1..5), not as a util.LogLevel.
type ConfigOverride struct {
	DataDir        *string `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	AccountsDir    *string `yaml:"accounts_dir,omitempty" json:"accounts_dir,omitempty"`
	DocumentsDir   *string `yaml:"documents_dir,omitempty" json:"documents_dir,omitempty"`
	AuditLog       *string `yaml:"audit_log,omitempty" json:"audit_log,omitempty"`
	LogLvl         *int    `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	HashIterations *int    `yaml:"hash_iterations,omitempty" json:"hash_iterations,omitempty"`
	PreviewChars   *int    `yaml:"preview_chars,omitempty" json:"preview_chars,omitempty"`
	RootAccountID  *string `yaml:"root_account_id,omitempty" json:"root_account_id,omitempty"`
	RootUsername   *string `yaml:"root_username,omitempty" json:"root_username,omitempty"`
	RootPassword   *string `yaml:"root_password,omitempty" json:"root_password,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		StorageOptions: StorageOptions{
			DataDir:      DefaultDataDir,
			AccountsDir:  DefaultAccountsDir,
			DocumentsDir: DefaultDocumentsDir,
			AuditLog:     DefaultAuditLog,
		},
		LogLvl:         DefaultLogLvl,
		HashIterations: DefaultHashIterations,
		PreviewChars:   DefaultPreviewChars,
		RootAccountID:  DefaultRootAccountID,
		RootUsername:   DefaultRootUsername,
		RootPassword:   DefaultRootPassword,
	}
}

// NewConfig creates a Config from defaults with override applied. A nil
// override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// VerbosityToLogLevel maps CLI verbosity (1 = errors only .. 5 = trace) to a
// util.LogLevel. Out of range values are clamped.
func VerbosityToLogLevel(v int) util.LogLevel {
	v = max(ErrorVerbose, min(TraceVerbose, v))
	return util.ErrorLevel - (v - ErrorVerbose)
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.DataDir != nil {
		c.DataDir = *override.DataDir
	}
	if override.AccountsDir != nil {
		c.AccountsDir = *override.AccountsDir
	}
	if override.DocumentsDir != nil {
		c.DocumentsDir = *override.DocumentsDir
	}
	if override.AuditLog != nil {
		c.AuditLog = *override.AuditLog
	}
	if override.LogLvl != nil {
		c.LogLvl = VerbosityToLogLevel(*override.LogLvl)
	}
	if override.HashIterations != nil {
		c.HashIterations = *override.HashIterations
	}
	if override.PreviewChars != nil {
		c.PreviewChars = *override.PreviewChars
	}
	if override.RootAccountID != nil {
		c.RootAccountID = *override.RootAccountID
	}
	if override.RootUsername != nil {
		c.RootUsername = *override.RootUsername
	}
	if override.RootPassword != nil {
		c.RootPassword = *override.RootPassword
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults
// and validates the result.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig(override)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
