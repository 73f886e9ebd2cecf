package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/jeanpaul/studymentor/internal/store"
	"github.com/jeanpaul/studymentor/internal/types"
)

type Config struct {
	DataDir         string          `yaml:"data_dir" mapstructure:"data_dir"`
	ExportDir       string          `yaml:"export_dir" mapstructure:"export_dir"`
	DefaultProvider string          `yaml:"default_provider" mapstructure:"default_provider"`
	Files           FilesConfig     `yaml:"files" mapstructure:"files"`
	Providers       ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Log             LogConfig       `yaml:"log" mapstructure:"log"`
	RenderMarkdown  bool            `yaml:"render_markdown" mapstructure:"render_markdown"`
}

// FilesConfig names the state files, relative to DataDir unless absolute.
type FilesConfig struct {
	Profile string `yaml:"profile" mapstructure:"profile"`
	History string `yaml:"history" mapstructure:"history"`
	Stats   string `yaml:"stats" mapstructure:"stats"`
}

type ProvidersConfig struct {
	OpenAI ProviderConfig `yaml:"openai" mapstructure:"openai"`
	Gemini ProviderConfig `yaml:"gemini" mapstructure:"gemini"`
}

// ProviderConfig holds endpoint settings. API keys are never read from the
// config file, only from the environment.
type ProviderConfig struct {
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"` // empty logs to stderr
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:         ".",
		ExportDir:       ".",
		DefaultProvider: types.OpenAI.String(),
		Files: FilesConfig{
			Profile: "studymentor_config.json",
			History: "study_history.json",
			Stats:   "study_stats.json",
		},
		Providers: ProvidersConfig{
			OpenAI: ProviderConfig{Model: "gpt-3.5-turbo", BaseURL: "https://api.openai.com/v1"},
			Gemini: ProviderConfig{Model: "gemini-2.0-flash", BaseURL: "https://generativelanguage.googleapis.com/v1beta"},
		},
		Log:            LogConfig{Level: "warn"},
		RenderMarkdown: true,
	}
}

func configDirs() []string {
	dirs := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "studymentor"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "studymentor"))
	}
	return dirs
}

// Load reads config.yaml from the search path, or from path when given, and
// applies STUDYMENTOR_* environment overrides. A missing search-path file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("STUDYMENTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.DataDir = expandEnv(cfg.DataDir)
	cfg.ExportDir = expandEnv(cfg.ExportDir)
	cfg.Log.File = expandEnv(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// no config file mentions.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("export_dir", cfg.ExportDir)
	v.SetDefault("default_provider", cfg.DefaultProvider)
	v.SetDefault("files.profile", cfg.Files.Profile)
	v.SetDefault("files.history", cfg.Files.History)
	v.SetDefault("files.stats", cfg.Files.Stats)
	v.SetDefault("providers.openai.model", cfg.Providers.OpenAI.Model)
	v.SetDefault("providers.openai.base_url", cfg.Providers.OpenAI.BaseURL)
	v.SetDefault("providers.gemini.model", cfg.Providers.Gemini.Model)
	v.SetDefault("providers.gemini.base_url", cfg.Providers.Gemini.BaseURL)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("render_markdown", cfg.RenderMarkdown)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Files.Profile == "" || c.Files.History == "" || c.Files.Stats == "" {
		return fmt.Errorf("config: files.profile, files.history and files.stats are required")
	}
	if _, ok := types.ParseProviderKind(c.DefaultProvider); !ok {
		return fmt.Errorf("config: default_provider %q is not one of OpenAI, Gemini", c.DefaultProvider)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.ExportDir == "" {
		c.ExportDir = "."
	}
	return nil
}

// DefaultKind is the provider used before a profile names one.
func (c *Config) DefaultKind() types.ProviderKind {
	k, _ := types.ParseProviderKind(c.DefaultProvider)
	return k
}

// ProviderFor returns the endpoint settings of kind.
func (c *Config) ProviderFor(kind types.ProviderKind) ProviderConfig {
	if kind == types.Gemini {
		return c.Providers.Gemini
	}
	return c.Providers.OpenAI
}

// Paths resolves the state files against DataDir.
func (c *Config) Paths() store.Paths {
	return store.Paths{
		Profile: c.resolve(c.Files.Profile),
		History: c.resolve(c.Files.History),
		Stats:   c.resolve(c.Files.Stats),
	}
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
