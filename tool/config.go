package tool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quickdrop/quickdrop-go/types"
)

// ConfigPath can be changed via flags, defaults to ./quickdrop.yaml.
var ConfigPath = "quickdrop.yaml"

func defaultClientConfig() types.ClientConfig {
	return types.ClientConfig{
		ServerURL: "http://127.0.0.1:8080",
		TTLValue:  30,
		TTLUnit:   "days",
	}
}

// LoadClientConfig reads the YAML client config. A missing file is not an
// error, defaults apply and a fresh file is written for next time.
func LoadClientConfig(path string) (types.ClientConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultClientConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultClientConfig(path, cfg); writeErr != nil {
				DefaultLogger.Warnf("Failed to write default config file: %v", writeErr)
			} else {
				DefaultLogger.Infof("Created new config file at %s", path)
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	return cfg, nil
}

func writeDefaultClientConfig(path string, cfg types.ClientConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
