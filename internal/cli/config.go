package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/itemlists/internal/paths"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// Config keys read from config.yaml.
const (
	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyNamespace = "namespace"
	cfgKeyLogLevel  = "log_level"
)

const defaultLogLevel = "warn"

// configFile is the structure written to a fresh config.yaml.
type configFile struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	Namespace string `yaml:"namespace"`
	LogLevel  string `yaml:"log_level"`
}

// settings is the resolved configuration of one invocation.
type settings struct {
	configDir string
	store     types.Config
	logLevel  string
}

// writeDefaultConfig creates config.yaml in dir unless it already exists.
// It reports whether the file was written.
func writeDefaultConfig(dir string) (bool, error) {
	path := paths.ConfigFile(dir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(configFile{
		Backend:   types.BackendSQLite,
		Namespace: types.DefaultNamespace,
		LogLevel:  defaultLogLevel,
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

// loadConfig reads config.yaml from dir. A missing file yields defaults.
// ITEMLISTS_BACKEND, ITEMLISTS_NAMESPACE, and ITEMLISTS_LOG_LEVEL override
// the file.
func loadConfig(dir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyNamespace, types.DefaultNamespace)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigFile(paths.ConfigFile(dir))
	v.SetConfigType("yaml")
	for _, key := range []string{cfgKeyBackend, cfgKeyNamespace, cfgKeyLogLevel} {
		_ = v.BindEnv(key, "ITEMLISTS_"+strings.ToUpper(key))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolve merges flags over config.yaml and the environment.
func (f *rootFlags) resolve() (settings, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return settings{}, systemError("resolve config dir", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, systemError("load config", err)
	}

	s := settings{
		configDir: configDir,
		store: types.Config{
			Backend:   pick(f.backend, v.GetString(cfgKeyBackend)),
			Namespace: pick(f.namespace, v.GetString(cfgKeyNamespace)),
		},
		logLevel: pick(f.logLevel, v.GetString(cfgKeyLogLevel)),
	}
	if s.store.Backend != types.BackendMemory {
		s.store.DataDir, err = paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
		if err != nil {
			return settings{}, systemError("resolve data dir", err)
		}
	}
	if err := s.store.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid configuration (backend %q, namespace %q): %w",
			s.store.Backend, s.store.Namespace, err)
	}
	return s, nil
}

func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
