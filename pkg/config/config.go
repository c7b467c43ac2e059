package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nsxbet/ddl-analyzer/pkg/advisor"
	"github.com/nsxbet/ddl-analyzer/pkg/catalog"
	"github.com/nsxbet/ddl-analyzer/pkg/collision"
	"github.com/nsxbet/ddl-analyzer/pkg/domain"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// Config is an analysis profile.
//
// Unset fields fall back to the built-in defaults: the `glpi_` table prefix,
// the default domain templates and the default common columns. An explicit
// empty list disables templates or common columns.
type Config struct {
	ID string `yaml:"id" json:"id"`
	// TablePrefix is stripped from table names. Nil means the default prefix.
	TablePrefix *string `yaml:"table_prefix,omitempty" json:"table_prefix,omitempty"`
	// Strict makes an unparsable CREATE TABLE statement fatal.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`
	// IgnoreDisplayWidth drops integer display widths such as int(11).
	IgnoreDisplayWidth bool `yaml:"ignore_display_width,omitempty" json:"ignore_display_width,omitempty"`
	// Domains are the templates columns are matched against, in order.
	Domains       []*types.DomainTemplate `yaml:"domains" json:"domains"`
	CommonColumns []string                `yaml:"common_columns" json:"common_columns"`
	Relations     RelationConfig          `yaml:"relations" json:"relations"`
	// Levels overrides the status of advices by code name.
	Levels map[string]advisor.Level `yaml:"levels,omitempty" json:"levels,omitempty"`
}

// RelationConfig tunes relation inference.
type RelationConfig struct {
	MatchPlural    bool `yaml:"match_plural" json:"match_plural"`
	IndexByColumns bool `yaml:"index_by_columns" json:"index_by_columns"`
}

// LoadFromFile loads configuration from a file
func LoadFromFile(filename string) (*Config, error) {
	slog.Debug("Loading config from file", "filename", filename)
	data, err := os.ReadFile(filename)
	if err != nil {
		slog.Debug("Failed to read file", "error", err)
		return nil, err
	}

	slog.Debug("File content preview", "content", string(data[:min(200, len(data))]))

	var config Config

	// Try YAML first, then JSON
	slog.Debug("Attempting YAML unmarshal")
	if err := yaml.Unmarshal(data, &config); err != nil {
		slog.Debug("YAML unmarshal failed", "error", err)
		slog.Debug("Attempting JSON unmarshal")
		if err := json.Unmarshal(data, &config); err != nil {
			slog.Debug("JSON unmarshal failed", "error", err)
			return nil, errors.Wrapf(err, "failed to parse profile %s", filename)
		}
		slog.Debug("JSON unmarshal succeeded")
	} else {
		slog.Debug("YAML unmarshal succeeded")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid profile %s", filename)
	}

	slog.Debug("Loaded config", "domains_count", len(config.Templates()), "common_columns_count", len(config.Common()))
	return &config, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig(id string) *Config {
	prefix := catalog.DefaultTablePrefix
	common := make([]string, len(collision.DefaultCommonColumns))
	copy(common, collision.DefaultCommonColumns)
	return &Config{
		ID:            id,
		TablePrefix:   &prefix,
		Domains:       domain.DefaultTemplates(),
		CommonColumns: common,
	}
}

// Validate checks that templates are named, unique and not empty, and that
// level overrides name known codes and levels.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, template := range c.Domains {
		if template == nil || template.Name == "" {
			return errors.Errorf("domain template #%d has no name", i+1)
		}
		if seen[template.Name] {
			return errors.Errorf("duplicate domain template %q", template.Name)
		}
		seen[template.Name] = true
		if template.IsEmpty() {
			return errors.Errorf("domain template %q has no attributes", template.Name)
		}
	}
	for name, level := range c.Levels {
		if _, ok := advisor.ParseCode(name); !ok {
			return errors.Errorf("unknown advice code %q", name)
		}
		if _, err := advisor.NewStatusByLevel(level); err != nil {
			return errors.Wrapf(err, "advice code %q", name)
		}
	}
	return nil
}

// Prefix returns the table prefix to strip.
func (c *Config) Prefix() string {
	if c.TablePrefix == nil {
		return catalog.DefaultTablePrefix
	}
	return *c.TablePrefix
}

// Templates returns the domain templates in match order.
func (c *Config) Templates() []*types.DomainTemplate {
	if c.Domains == nil {
		return domain.DefaultTemplates()
	}
	return c.Domains
}

// Common returns the columns checked for consistent definitions.
func (c *Config) Common() []string {
	if c.CommonColumns == nil {
		return collision.DefaultCommonColumns
	}
	return c.CommonColumns
}

// ApplyLevels sets the level overrides on collector.
func (c *Config) ApplyLevels(collector *advisor.Collector) error {
	for name, level := range c.Levels {
		code, ok := advisor.ParseCode(name)
		if !ok {
			return errors.Errorf("unknown advice code %q", name)
		}
		if err := collector.SetLevel(code, level); err != nil {
			return err
		}
	}
	return nil
}

// WriteToFile writes the configuration as JSON when filename ends in .json,
// and as YAML otherwise.
func (c *Config) WriteToFile(filename string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode profile")
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write profile %s", filename)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
