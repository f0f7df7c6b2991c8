package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

const (
	// DefaultConfigFile is looked up in the working directory when no path is given
	DefaultConfigFile = "blecmd.toml"

	// DefaultPrompt is shown before every input line
	DefaultPrompt = "bleCmd > "

	// DefaultHelpWidth is the total width of the help table
	DefaultHelpWidth = 105

	historyFileName = ".blecmd_history"
)

// SimulatedDevice describes one device served by the in-memory controller
type SimulatedDevice struct {
	MAC       string `toml:"mac"`
	Name      string `toml:"name"`
	Kind      string `toml:"kind"`
	Supported bool   `toml:"supported"`
}

// SimulatedAdapter describes one local adapter served by the in-memory controller
type SimulatedAdapter struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
}

// Config holds the settings for the whole application
type Config struct {
	Debug  bool   `toml:"debug"`
	Prompt string `toml:"prompt"`
	Color  string `toml:"color"` // "auto", "always" or "never"
	Log    struct {
		Filename string `toml:"filename"`
	} `toml:"log"`
	History struct {
		File  string `toml:"file"`
		Limit int    `toml:"limit"`
	} `toml:"history"`
	Help struct {
		Width int `toml:"width"`
	} `toml:"help"`
	Device struct {
		ScanTimeout     int                `toml:"scan_timeout"` // seconds
		DefaultPassword string             `toml:"default_password"`
		Adapters        []SimulatedAdapter `toml:"adapters"`
		Simulated       []SimulatedDevice  `toml:"simulated"`
	} `toml:"device"`
}

// NewConfig creates a Config populated with defaults
func NewConfig() *Config {
	cfg := &Config{
		Debug:  false,
		Prompt: DefaultPrompt,
		Color:  "auto",
	}
	cfg.Log.Filename = "blecmd.log"
	cfg.History.File = DefaultHistoryFile()
	cfg.History.Limit = 500
	cfg.Help.Width = DefaultHelpWidth
	cfg.Device.ScanTimeout = 5
	return cfg
}

// DefaultHistoryFile returns the history file in the user's home directory,
// or in the working directory when the home directory is unknown.
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFileName
	}
	return filepath.Join(home, historyFileName)
}

// LoadConfig loads the configuration in this order of precedence:
// 1. the file at configPath, when given
// 2. DefaultConfigFile in the working directory, when it exists
// 3. the defaults
func LoadConfig(configPath string) (*Config, error) {
	config := NewConfig()

	filePath := configPath
	if filePath == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			filePath = DefaultConfigFile
		} else {
			return config, nil
		}
	}

	if _, err := toml.DecodeFile(filePath, config); err != nil {
		return nil, fmt.Errorf("could not read config %s: %w", filePath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filePath, err)
	}

	return config, nil
}

// Validate checks values that cannot be corrected silently
func (c *Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never: %q", c.Color)
	}
	if c.Help.Width < 80 {
		return fmt.Errorf("help width must be at least 80: %d", c.Help.Width)
	}
	if c.Device.ScanTimeout <= 0 {
		return fmt.Errorf("scan timeout must be positive: %d", c.Device.ScanTimeout)
	}
	return nil
}

// ApplyCommandLineArgs overrides settings with the values given on the command line
func (c *Config) ApplyCommandLineArgs(args CommandLineArgs) {
	if args.DebugSpecified {
		c.Debug = args.Debug
	}
	if args.LogFilenameSpecified {
		c.Log.Filename = args.LogFilename
	}
	if args.PromptSpecified {
		c.Prompt = args.Prompt
	}
	if args.HistoryFileSpecified {
		c.History.File = args.HistoryFile
	}
	if args.ColorSpecified {
		c.Color = args.Color
	}
	if args.HelpWidthSpecified {
		c.Help.Width = args.HelpWidth
	}
}

// CommandLineArgs holds values from the command line together with whether
// each one was given explicitly
type CommandLineArgs struct {
	ConfigFile      string
	ConfigSpecified bool

	Debug          bool
	DebugSpecified bool

	LogFilename          string
	LogFilenameSpecified bool

	Prompt          string
	PromptSpecified bool

	HistoryFile          string
	HistoryFileSpecified bool

	Color          string
	ColorSpecified bool

	HelpWidth          int
	HelpWidthSpecified bool
}

// RegisterFlags declares the command line flags on fs
func RegisterFlags(fs *pflag.FlagSet) {
	defaults := NewConfig()
	fs.String("config", "", "path of the TOML config file")
	fs.Bool("debug", defaults.Debug, "enable debug logging")
	fs.String("log", defaults.Log.Filename, "log file name")
	fs.String("prompt", defaults.Prompt, "prompt shown before each input line")
	fs.String("history", defaults.History.File, "history file of the line editor")
	fs.String("color", defaults.Color, "colored output: auto, always or never")
	fs.Int("help-width", defaults.Help.Width, "total width of the help table")
}

// ArgsFromFlags reads the flags declared by RegisterFlags after parsing
func ArgsFromFlags(fs *pflag.FlagSet) (CommandLineArgs, error) {
	var args CommandLineArgs
	var err error

	if args.ConfigFile, err = fs.GetString("config"); err != nil {
		return args, err
	}
	args.ConfigSpecified = fs.Changed("config")

	if args.Debug, err = fs.GetBool("debug"); err != nil {
		return args, err
	}
	args.DebugSpecified = fs.Changed("debug")

	if args.LogFilename, err = fs.GetString("log"); err != nil {
		return args, err
	}
	args.LogFilenameSpecified = fs.Changed("log")

	if args.Prompt, err = fs.GetString("prompt"); err != nil {
		return args, err
	}
	args.PromptSpecified = fs.Changed("prompt")

	if args.HistoryFile, err = fs.GetString("history"); err != nil {
		return args, err
	}
	args.HistoryFileSpecified = fs.Changed("history")

	if args.Color, err = fs.GetString("color"); err != nil {
		return args, err
	}
	args.ColorSpecified = fs.Changed("color")

	if args.HelpWidth, err = fs.GetInt("help-width"); err != nil {
		return args, err
	}
	args.HelpWidthSpecified = fs.Changed("help-width")

	return args, nil
}
