package config

import "github.com/spf13/pflag"

// Flags are the command-line overrides; they win over every other source.
type Flags struct {
	Dev        bool
	LogPath    string
	ConfigPath string
	Mode       string
	APIURL     string

	Addr      string
	Provider  string
	Model     string
	RateLimit int
}

// BindPersistent registers the flags shared by every command.
func (f *Flags) BindPersistent(fs *pflag.FlagSet) {
	fs.BoolVar(&f.Dev, "dev", false, "Development mode")
	fs.StringVar(&f.LogPath, "log-path", "", "Directory to save the log file in")
	fs.StringVar(&f.ConfigPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&f.Mode, "mode", "", "Where submissions go: backend or direct")
	fs.StringVar(&f.APIURL, "api-url", "", "Base URL of the roast backend")
	fs.StringVar(&f.Provider, "provider", "", "Model provider: gemini, openai or ollama")
	fs.StringVar(&f.Model, "model", "", "Model name for the provider")
}

// BindServer registers the backend server flags.
func (f *Flags) BindServer(fs *pflag.FlagSet) {
	fs.StringVar(&f.Addr, "addr", "", "Address for the backend to listen on")
	fs.IntVar(&f.RateLimit, "rate-limit", -1, "Backend requests per minute, 0 for unlimited")
}

// Apply copies the flags that were set on the command line into cfg.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	if f.Dev {
		cfg.Dev = true
	}
	if fs.Changed("log-path") {
		cfg.LogPath = f.LogPath
	}
	if fs.Changed("mode") {
		cfg.Mode = Mode(f.Mode)
	}
	if fs.Changed("api-url") {
		cfg.APIURL = f.APIURL
	}
	if fs.Changed("provider") {
		cfg.Provider = f.Provider
	}
	if fs.Changed("model") {
		cfg.Model = f.Model
	}
	if fs.Changed("addr") {
		cfg.Addr = f.Addr
	}
	if fs.Changed("rate-limit") {
		cfg.RateLimit = f.RateLimit
	}
}
