package config

import (
	"fmt"
	"os"

	"github.com/tidechain/tide-go/pkg/core/storage/dbconfig"
	"gopkg.in/yaml.v3"
)

// Version is the version of the node, set at the build time.
var Version string

// Config top level struct representing the node configuration.
type Config struct {
	ProtocolConfiguration    ProtocolConfiguration    `yaml:"ProtocolConfiguration"`
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// ApplicationConfiguration holds the node-local (non-consensus) settings.
type ApplicationConfiguration struct {
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	LogLevel        string                   `yaml:"LogLevel"`
}

// Load attempts to load the config from the given path.
func Load(path string) (Config, error) {
	config := Config{
		ProtocolConfiguration: ProtocolConfiguration{
			MaxVoteCandidateNum: 22,
		},
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	err = yaml.Unmarshal(configData, &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	err = config.ProtocolConfiguration.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}
