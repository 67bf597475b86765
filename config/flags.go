package config

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Flag names shared by RegisterFlags, LoadConfig and MergeFromFlags.
const (
	FlagConfig           = "config"
	FlagMkvmerge         = "mkvmerge"
	FlagLanguageFile     = "language-file"
	FlagLogLevel         = "log-level"
	FlagVerbose          = "verbose"
	FlagSilent           = "silent"
	FlagTableStyle       = "table-style"
	FlagProbeCacheTTL    = "probe-cache-ttl"
	FlagProbeConcurrency = "probe-concurrency"
)

// RegisterFlags defines the configuration flags on fs. Defaults are left
// empty so that only explicitly set flags override the config file.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file (default: search ./mkvmux.yaml, ~/.config/mkvmux/config.yaml, /etc/mkvmux/config.yaml)")
	fs.String(FlagMkvmerge, "", "Path to the mkvmerge binary (default: from config)")
	fs.String(FlagLanguageFile, "", "ISO639-2 code list file (default: built-in list)")
	fs.String(FlagLogLevel, "", "Log level: debug, info, warn, error (default: from config)")
	fs.BoolP(FlagVerbose, "v", false, "Shortcut for --log-level debug")
	fs.Bool(FlagSilent, false, "Suppress mkvmerge output while muxing")
	fs.String(FlagTableStyle, "", "Track table style: light, rounded, bold, double, plain")
	fs.String(FlagProbeCacheTTL, "", "How long identification results are reused, e.g. 10m (0 disables)")
	fs.Int(FlagProbeConcurrency, -1, "Files identified in parallel (0 = auto-detect)")
}

// MergeFromFlags overrides config values with the flags explicitly set on fs
func (c *Config) MergeFromFlags(fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err != nil || !fs.Changed(name) {
			return
		}
		*dst, err = fs.GetString(name)
	}

	str(FlagMkvmerge, &c.MkvmergePath)
	str(FlagLanguageFile, &c.LanguageFile)
	str(FlagLogLevel, &c.LogLevel)
	str(FlagTableStyle, &c.TableStyle)
	str(FlagProbeCacheTTL, &c.ProbeCacheTTL)
	if err != nil {
		return err
	}

	// Verbose wins over an explicit level
	if fs.Changed(FlagVerbose) {
		verbose, err := fs.GetBool(FlagVerbose)
		if err != nil {
			return err
		}
		if verbose {
			c.LogLevel = "debug"
		}
	}
	if fs.Changed(FlagSilent) {
		if c.Silent, err = fs.GetBool(FlagSilent); err != nil {
			return err
		}
	}
	if fs.Changed(FlagProbeConcurrency) {
		if c.ProbeConcurrency, err = fs.GetInt(FlagProbeConcurrency); err != nil {
			return err
		}
	}

	return nil
}

// PrintConfig prints the effective configuration
func (c *Config) PrintConfig(w io.Writer, source string) {
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "                 Effective Configuration                  ")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "Config File:       %s\n", source)
	fmt.Fprintf(w, "mkvmerge:          %s\n", c.MkvmergePath)
	if c.LanguageFile != "" {
		fmt.Fprintf(w, "Language File:     %s\n", c.LanguageFile)
	} else {
		fmt.Fprintf(w, "Language File:     (built-in)\n")
	}

	fmt.Fprintln(w, "\nOutput:")
	fmt.Fprintf(w, "  Log Level:       %s\n", c.LogLevel)
	fmt.Fprintf(w, "  Silent:          %v\n", c.Silent)
	fmt.Fprintf(w, "  Table Style:     %s\n", c.TableStyle)

	fmt.Fprintln(w, "\nProbing:")
	fmt.Fprintf(w, "  Cache TTL:       %s\n", c.ProbeCacheTTL)
	fmt.Fprintf(w, "  Concurrency:     %d\n", c.ProbeConcurrency)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}
