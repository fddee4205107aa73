// Package config provides configuration management for the roster tools.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"runde/internal/roster"
)

// Configuration validation errors.
var (
	ErrMissingTeachersPath = errors.New("data.teachers_path is required")
	ErrMissingSourcePath   = errors.New("data.source_path is required")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrNoDepartments       = errors.New("rules.departments must not be empty")
)

// Config represents the complete toolkit configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Rules   RulesConfig   `yaml:"rules"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates the site data files.
type DataConfig struct {
	TeachersPath  string `yaml:"teachers_path"`
	StudentsPath  string `yaml:"students_path"`
	PortalPath    string `yaml:"portal_path"`
	SourcePath    string `yaml:"source_path"`
	ChangelogPath string `yaml:"changelog_path"`
	CreateBackup  bool   `yaml:"create_backup"`
}

// RulesConfig overrides the built-in roster rule tables. Empty fields keep
// their defaults.
type RulesConfig struct {
	DeptCanon     map[string]string `yaml:"dept_canon"`
	Departments   []string          `yaml:"departments"`
	MgmtOrder     []string          `yaml:"mgmt_order"`
	NameAliases   map[string]string `yaml:"name_aliases"`
	RoleHints     []string          `yaml:"role_hints"`
	OrgPrefixes   []string          `yaml:"org_prefixes"`
	TheoryMarkers []string          `yaml:"theory_markers"`
	TheoryDept    string            `yaml:"theory_dept"`
	MgmtDept      string            `yaml:"mgmt_dept"`
	DefaultTitle  string            `yaml:"default_title"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no config file is given:
// data files under data/, the raw roster at teacher-liest, backups on.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			TeachersPath:  "data/teachers.json",
			StudentsPath:  "data/students.json",
			PortalPath:    "data/portal.json",
			SourcePath:    "teacher-liest",
			ChangelogPath: "todo.txt",
			CreateBackup:  true,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load loads configuration from a YAML file, filling unset fields from
// Default and validating the result.
func Load(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.TeachersPath == "" {
		return ErrMissingTeachersPath
	}

	if c.Data.SourcePath == "" {
		return ErrMissingSourcePath
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if len(c.RosterRules().Departments) == 0 {
		return ErrNoDepartments
	}

	return nil
}

// RosterRules materializes the roster rule tables: the built-in defaults
// overridden by any non-empty config section.
func (c *Config) RosterRules() roster.Rules {
	rules := roster.DefaultRules()

	if len(c.Rules.DeptCanon) > 0 {
		rules.DeptCanon = c.Rules.DeptCanon
	}

	if len(c.Rules.Departments) > 0 {
		rules.Departments = c.Rules.Departments
	}

	if len(c.Rules.MgmtOrder) > 0 {
		rules.MgmtOrder = c.Rules.MgmtOrder
	}

	if len(c.Rules.NameAliases) > 0 {
		rules.NameAliases = c.Rules.NameAliases
	}

	if len(c.Rules.RoleHints) > 0 {
		rules.RoleHints = c.Rules.RoleHints
	}

	if len(c.Rules.OrgPrefixes) > 0 {
		rules.OrgPrefixes = c.Rules.OrgPrefixes
	}

	if len(c.Rules.TheoryMarkers) > 0 {
		rules.TheoryMarkers = c.Rules.TheoryMarkers
	}

	if c.Rules.TheoryDept != "" {
		rules.TheoryDept = c.Rules.TheoryDept
	}

	if c.Rules.MgmtDept != "" {
		rules.MgmtDept = c.Rules.MgmtDept
	}

	if c.Rules.DefaultTitle != "" {
		rules.DefaultTitle = c.Rules.DefaultTitle
	}

	return rules
}
