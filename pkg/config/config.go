package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

const (
	DefaultConfigPath = "/etc/idm"
	ConfigFileName    = "idm.yml"
)

// ValidLogFormats is the list of accepted log_format values
var ValidLogFormats = []string{"json", "console"}

// IDMConfig holds all identity admin configuration settings
type IDMConfig struct {
	// PageSize is the number of log entries per page in the log viewer
	PageSize int `yaml:"page_size" json:"page_size"`

	// LogFetchLimit is the maximum number of log messages fetched for paging
	LogFetchLimit int `yaml:"log_fetch_limit" json:"log_fetch_limit"`

	// DefaultUserRole is the role every newly created user is added to
	DefaultUserRole string `yaml:"default_user_role" json:"default_user_role"`

	// AdminRole is the role a bearer token must carry to use the admin API
	AdminRole string `yaml:"admin_role" json:"admin_role"`

	// TokenSecret is the HS256 key admin bearer tokens are signed with
	TokenSecret string `yaml:"token_secret" json:"-"`

	// TokenTTL is the lifetime of issued admin tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	PasswordRequiredLength         int  `yaml:"password_required_length" json:"password_required_length"`
	PasswordRequireDigit           bool `yaml:"password_require_digit" json:"password_require_digit"`
	PasswordRequireLowercase       bool `yaml:"password_require_lowercase" json:"password_require_lowercase"`
	PasswordRequireUppercase       bool `yaml:"password_require_uppercase" json:"password_require_uppercase"`
	PasswordRequireNonAlphanumeric bool `yaml:"password_require_non_alphanumeric" json:"password_require_non_alphanumeric"`

	// LogLevel is the minimum level of operational logs
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is json or console
	LogFormat string `yaml:"log_format" json:"log_format"`

	// PersistLogLevel is the minimum level of operational logs stored for the log viewer
	PersistLogLevel string `yaml:"persist_log_level" json:"persist_log_level"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors IDMConfig with pointers so explicit zero values in the
// file can be told apart from missing keys
type fileConfig struct {
	PageSize                       *int    `yaml:"page_size"`
	LogFetchLimit                  *int    `yaml:"log_fetch_limit"`
	DefaultUserRole                *string `yaml:"default_user_role"`
	AdminRole                      *string `yaml:"admin_role"`
	TokenSecret                    *string `yaml:"token_secret"`
	TokenTTL                       *int    `yaml:"token_ttl"`
	PasswordRequiredLength         *int    `yaml:"password_required_length"`
	PasswordRequireDigit           *bool   `yaml:"password_require_digit"`
	PasswordRequireLowercase       *bool   `yaml:"password_require_lowercase"`
	PasswordRequireUppercase       *bool   `yaml:"password_require_uppercase"`
	PasswordRequireNonAlphanumeric *bool   `yaml:"password_require_non_alphanumeric"`
	LogLevel                       *string `yaml:"log_level"`
	LogFormat                      *string `yaml:"log_format"`
	PersistLogLevel                *string `yaml:"persist_log_level"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *IDMConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *IDMConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *IDMConfig {
	policy := store.DefaultPasswordPolicy
	return &IDMConfig{
		PageSize:                       10,
		LogFetchLimit:                  1000,
		DefaultUserRole:                "User",
		AdminRole:                      "Admin",
		TokenTTL:                       3600,
		PasswordRequiredLength:         policy.RequiredLength,
		PasswordRequireDigit:           policy.RequireDigit,
		PasswordRequireLowercase:       policy.RequireLowercase,
		PasswordRequireUppercase:       policy.RequireUppercase,
		PasswordRequireNonAlphanumeric: policy.RequireNonAlphanumeric,
		LogLevel:                       "info",
		LogFormat:                      "json",
		PersistLogLevel:                "warn",
		sources:                        make(map[string]string),
	}
}

// Default returns a configuration holding only the built-in defaults
func Default() *IDMConfig {
	config := newDefault()
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}
	return config
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*IDMConfig, error) {
	config := Default()

	config.configFilePath = FilePath()

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	return config, nil
}

// FilePath returns the config file location derived from IDM_CONFIG_PATH
func FilePath() string {
	configPath := os.Getenv("IDM_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return filepath.Join(configPath, ConfigFileName)
}

func attributeNames() []string {
	return []string{
		"page_size", "log_fetch_limit", "default_user_role", "admin_role",
		"token_secret", "token_ttl",
		"password_required_length", "password_require_digit",
		"password_require_lowercase", "password_require_uppercase",
		"password_require_non_alphanumeric",
		"log_level", "log_format", "persist_log_level",
	}
}

func setFromFile[T any](c *IDMConfig, name string, dst *T, src *T) {
	if src != nil {
		*dst = *src
		c.sources[name] = "file"
	}
}

func (c *IDMConfig) applyFileConfig(file *fileConfig) {
	setFromFile(c, "page_size", &c.PageSize, file.PageSize)
	setFromFile(c, "log_fetch_limit", &c.LogFetchLimit, file.LogFetchLimit)
	setFromFile(c, "default_user_role", &c.DefaultUserRole, file.DefaultUserRole)
	setFromFile(c, "admin_role", &c.AdminRole, file.AdminRole)
	setFromFile(c, "token_secret", &c.TokenSecret, file.TokenSecret)
	setFromFile(c, "token_ttl", &c.TokenTTL, file.TokenTTL)
	setFromFile(c, "password_required_length", &c.PasswordRequiredLength, file.PasswordRequiredLength)
	setFromFile(c, "password_require_digit", &c.PasswordRequireDigit, file.PasswordRequireDigit)
	setFromFile(c, "password_require_lowercase", &c.PasswordRequireLowercase, file.PasswordRequireLowercase)
	setFromFile(c, "password_require_uppercase", &c.PasswordRequireUppercase, file.PasswordRequireUppercase)
	setFromFile(c, "password_require_non_alphanumeric", &c.PasswordRequireNonAlphanumeric, file.PasswordRequireNonAlphanumeric)
	setFromFile(c, "log_level", &c.LogLevel, file.LogLevel)
	setFromFile(c, "log_format", &c.LogFormat, file.LogFormat)
	setFromFile(c, "persist_log_level", &c.PersistLogLevel, file.PersistLogLevel)
}

func envName(attribute string) string {
	return "IDM_" + strings.ToUpper(attribute)
}

func (c *IDMConfig) envInt(name string, dst *int) {
	if val := os.Getenv(envName(name)); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
			c.sources[name] = "environment"
		}
	}
}

func (c *IDMConfig) envBool(name string, dst *bool) {
	if val := os.Getenv(envName(name)); val != "" {
		*dst = val == "true" || val == "1"
		c.sources[name] = "environment"
	}
}

func (c *IDMConfig) envString(name string, dst *string) {
	if val := os.Getenv(envName(name)); val != "" {
		*dst = val
		c.sources[name] = "environment"
	}
}

func (c *IDMConfig) applyEnvConfig() {
	c.envInt("page_size", &c.PageSize)
	c.envInt("log_fetch_limit", &c.LogFetchLimit)
	c.envString("default_user_role", &c.DefaultUserRole)
	c.envString("admin_role", &c.AdminRole)
	c.envString("token_secret", &c.TokenSecret)
	c.envInt("token_ttl", &c.TokenTTL)
	c.envInt("password_required_length", &c.PasswordRequiredLength)
	c.envBool("password_require_digit", &c.PasswordRequireDigit)
	c.envBool("password_require_lowercase", &c.PasswordRequireLowercase)
	c.envBool("password_require_uppercase", &c.PasswordRequireUppercase)
	c.envBool("password_require_non_alphanumeric", &c.PasswordRequireNonAlphanumeric)
	c.envString("log_level", &c.LogLevel)
	c.envString("log_format", &c.LogFormat)
	c.envString("persist_log_level", &c.PersistLogLevel)
}

// ConfigFilePath returns the path to the config file
func (c *IDMConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *IDMConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// PasswordPolicy returns the password rules new passwords must satisfy
func (c *IDMConfig) PasswordPolicy() store.PasswordPolicy {
	return store.PasswordPolicy{
		RequiredLength:         c.PasswordRequiredLength,
		RequireDigit:           c.PasswordRequireDigit,
		RequireLowercase:       c.PasswordRequireLowercase,
		RequireUppercase:       c.PasswordRequireUppercase,
		RequireNonAlphanumeric: c.PasswordRequireNonAlphanumeric,
	}
}

// TokenLifetime returns the admin token TTL as a duration
func (c *IDMConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// Validate validates the configuration
func (c *IDMConfig) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("invalid page_size value: %d", c.PageSize)
	}
	if c.LogFetchLimit <= 0 {
		return fmt.Errorf("invalid log_fetch_limit value: %d", c.LogFetchLimit)
	}
	if c.PasswordRequiredLength < 0 {
		return fmt.Errorf("invalid password_required_length value: %d", c.PasswordRequiredLength)
	}
	if strings.TrimSpace(c.AdminRole) == "" {
		return fmt.Errorf("admin_role must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token_ttl value: %d", c.TokenTTL)
	}

	validFormat := false
	for _, f := range ValidLogFormats {
		if c.LogFormat == f {
			validFormat = true
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid log_format value: %s", c.LogFormat)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources.
// The token secret is masked.
func (c *IDMConfig) Attributes() []Attribute {
	secret := ""
	if c.TokenSecret != "" {
		secret = "********"
	}
	return []Attribute{
		{Name: "page_size", Value: strconv.Itoa(c.PageSize), Source: c.Source("page_size")},
		{Name: "log_fetch_limit", Value: strconv.Itoa(c.LogFetchLimit), Source: c.Source("log_fetch_limit")},
		{Name: "default_user_role", Value: c.DefaultUserRole, Source: c.Source("default_user_role")},
		{Name: "admin_role", Value: c.AdminRole, Source: c.Source("admin_role")},
		{Name: "token_secret", Value: secret, Source: c.Source("token_secret")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "password_required_length", Value: strconv.Itoa(c.PasswordRequiredLength), Source: c.Source("password_required_length")},
		{Name: "password_require_digit", Value: strconv.FormatBool(c.PasswordRequireDigit), Source: c.Source("password_require_digit")},
		{Name: "password_require_lowercase", Value: strconv.FormatBool(c.PasswordRequireLowercase), Source: c.Source("password_require_lowercase")},
		{Name: "password_require_uppercase", Value: strconv.FormatBool(c.PasswordRequireUppercase), Source: c.Source("password_require_uppercase")},
		{Name: "password_require_non_alphanumeric", Value: strconv.FormatBool(c.PasswordRequireNonAlphanumeric), Source: c.Source("password_require_non_alphanumeric")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "persist_log_level", Value: c.PersistLogLevel, Source: c.Source("persist_log_level")},
	}
}

// FormatText returns a text representation of the configuration
func (c *IDMConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *IDMConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
