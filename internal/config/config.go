package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding CLI flags.
const EnvPrefix = "ISSUANCE"

// CLIOptions holds the command line settings merged from flags, ISSUANCE_* env vars and defaults.
type CLIOptions struct {
	ConfigPath string
	TokenFile  string
	LogLevel   string
	Timeout    time.Duration
	Date       string
	Output     string
}

// RegisterFlags declares the flags understood by LoadCLIOptions.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "config/config.yml", "config file path")
	flags.String("token-file", "", "token definition file, overrides token.file of the config")
	flags.String("log-level", "", "log level (debug, info, warn, error), overrides logging.level of the config")
	flags.Duration("timeout", 2*time.Minute, "overall timeout of one command")
	flags.String("output", "text", "output format (text, json)")
}

// LoadCLIOptions merges environment variables and flags into CLIOptions.
func LoadCLIOptions(flags *pflag.FlagSet) (CLIOptions, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("config", "config/config.yml")
	v.SetDefault("timeout", 2*time.Minute)
	v.SetDefault("output", "text")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return CLIOptions{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	opts := CLIOptions{
		ConfigPath: v.GetString("config"),
		TokenFile:  v.GetString("token-file"),
		LogLevel:   v.GetString("log-level"),
		Timeout:    v.GetDuration("timeout"),
		Date:       v.GetString("date"),
		Output:     strings.ToLower(v.GetString("output")),
	}
	if opts.Output != "text" && opts.Output != "json" {
		return CLIOptions{}, fmt.Errorf("unsupported output format %q", opts.Output)
	}
	if opts.Timeout <= 0 {
		return CLIOptions{}, fmt.Errorf("timeout must be positive, got %s", opts.Timeout)
	}
	return opts, nil
}
