// Config loading for the taskboard CLI.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyTenant     = "tenant"
	cfgKeyLogLevel   = "log_level"
	cfgKeyListenAddr = "listen_addr"

	defaultTenant     = "local"
	defaultLogLevel   = "info"
	defaultListenAddr = ":8080"

	envPrefix = "TASKBOARD"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir,omitempty"`
	Tenant     string `yaml:"tenant"`
	LogLevel   string `yaml:"log_level"`
	ListenAddr string `yaml:"listen_addr"`
}

func defaultConfig(dataDir string) configFile {
	return configFile{
		Backend:    types.BackendSQLite,
		DataDir:    dataDir,
		Tenant:     defaultTenant,
		LogLevel:   defaultLogLevel,
		ListenAddr: defaultListenAddr,
	}
}

// loadConfig reads config.yaml from configDir using Viper. A missing file is
// not an error; the defaults apply. TASKBOARD_TENANT, TASKBOARD_LOG_LEVEL and
// TASKBOARD_LISTEN_ADDR override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	def := defaultConfig("")
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyTenant, def.Tenant)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyListenAddr, def.ListenAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	// data_dir is left to paths.ResolveDataDir, which ranks the file above
	// the environment.
	for _, key := range []string{cfgKeyTenant, cfgKeyLogLevel, cfgKeyListenAddr} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := defaultConfig(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	header := []byte("# taskboard configuration\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}

func configPath(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}
