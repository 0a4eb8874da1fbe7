// Package config loads the tmplc.yaml configuration file and layers
// TMPLC_* environment overrides on top, producing the resolved settings
// every other package (lexer, whitespace, escape, graph) is built from.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/caseywise/tmplc/lexer"
	"github.com/caseywise/tmplc/whitespace"
)

// Error reports a problem loading or validating a config file.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// SyntaxConfig mirrors one entry of the config file's syntaxes table.
type SyntaxConfig struct {
	ExprStart    string `mapstructure:"expr_start"`
	ExprEnd      string `mapstructure:"expr_end"`
	BlockStart   string `mapstructure:"block_start"`
	BlockEnd     string `mapstructure:"block_end"`
	CommentStart string `mapstructure:"comment_start"`
	CommentEnd   string `mapstructure:"comment_end"`
}

// Config is the fully-resolved, validated settings tree for one
// driver.Compile invocation.
type Config struct {
	DefaultSyntax string                  `mapstructure:"default_syntax"`
	Dirs          []string                `mapstructure:"dirs"`
	Syntaxes      map[string]SyntaxConfig `mapstructure:"syntaxes"`
	Escapers      map[string]string       `mapstructure:"escapers"`
	Strip         string                  `mapstructure:"strip"`
}

// Default returns the configuration a repository with no tmplc.yaml gets:
// the default syntax, a single "templates" search directory, the default
// escaper table, and the TrimLines strip policy.
func Default() *Config {
	return &Config{
		DefaultSyntax: "default",
		Dirs:          []string{"templates"},
		Syntaxes:      map[string]SyntaxConfig{},
		Escapers:      map[string]string{},
		Strip:         "trim_lines",
	}
}

// Load reads path (tmplc.yaml by default) via viper, merging TMPLC_*
// environment overrides on top, matching the config pattern the rest of
// the corpus pairs viper with yaml.v3 for. A missing file is not an
// error: the zero-config defaults from Default apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TMPLC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	v.SetDefault("default_syntax", cfg.DefaultSyntax)
	v.SetDefault("dirs", cfg.Dirs)
	v.SetDefault("strip", cfg.Strip)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, &Error{Path: path, Message: err.Error()}
			}
		}
	}

	resolved := Default()
	if err := v.Unmarshal(resolved); err != nil {
		return nil, &Error{Path: path, Message: err.Error()}
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// Validate checks the config tree's internal consistency: the default
// syntax must be resolvable, and every named syntax must satisfy the
// lexer's distinguishable-delimiter invariant.
func (c *Config) Validate() error {
	if _, err := c.Syntax(c.DefaultSyntax); err != nil {
		return err
	}
	for name := range c.Syntaxes {
		syn, err := c.Syntax(name)
		if err != nil {
			return err
		}
		if err := syn.Validate(); err != nil {
			return &Error{Message: err.Error()}
		}
	}
	return nil
}

// Syntax resolves a named syntax to a lexer.Syntax, falling back to the
// built-in default delimiters for any field left blank in the config.
func (c *Config) Syntax(name string) (lexer.Syntax, error) {
	if name == "default" || name == "" {
		if sc, ok := c.Syntaxes[name]; ok {
			return mergeSyntax(lexer.DefaultSyntax(), sc), nil
		}
		return lexer.DefaultSyntax(), nil
	}
	sc, ok := c.Syntaxes[name]
	if !ok {
		return lexer.Syntax{}, &Error{Message: fmt.Sprintf("unknown syntax %q", name)}
	}
	return mergeSyntax(lexer.DefaultSyntax(), sc), nil
}

func mergeSyntax(base lexer.Syntax, sc SyntaxConfig) lexer.Syntax {
	syn := base
	if sc.ExprStart != "" {
		syn.ExprStart = sc.ExprStart
	}
	if sc.ExprEnd != "" {
		syn.ExprEnd = sc.ExprEnd
	}
	if sc.BlockStart != "" {
		syn.BlockStart = sc.BlockStart
	}
	if sc.BlockEnd != "" {
		syn.BlockEnd = sc.BlockEnd
	}
	if sc.CommentStart != "" {
		syn.CommentStart = sc.CommentStart
	}
	if sc.CommentEnd != "" {
		syn.CommentEnd = sc.CommentEnd
	}
	return syn
}

// StripPolicy resolves the config's strip string into a whitespace.Strip.
func (c *Config) StripPolicy() (whitespace.Strip, error) {
	policy, err := whitespace.ParseStrip(c.Strip)
	if err != nil {
		return whitespace.StripNone, &Error{Message: err.Error()}
	}
	return policy, nil
}
