package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Bootstrap holds the path of the optional startup configuration file
type Bootstrap struct {
	Path string
}

// Flags returns CLI flags for Bootstrap configuration
func (b *Bootstrap) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bootstrap-config",
			Usage:       "Path to YAML file with the initial admin account and SOP topics",
			Category:    "Bootstrap",
			Sources:     cli.EnvVars("WARDEN_BOOTSTRAP_CONFIG"),
			Destination: &b.Path,
		},
	}
}

// Configure loads the bootstrap configuration from YAML. Without a path the
// built-in defaults apply.
func (b *Bootstrap) Configure() (*model.BootstrapConfig, error) {
	if b.Path == "" {
		return &model.BootstrapConfig{}, nil
	}
	return LoadBootstrapFromFile(b.Path)
}

// LoadBootstrapFromFile loads the bootstrap configuration from a YAML file
func LoadBootstrapFromFile(path string) (*model.BootstrapConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "configuration file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read configuration file",
			goerr.V("path", path))
	}

	var config model.BootstrapConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML configuration",
			goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid configuration",
			goerr.V("path", path))
	}

	return &config, nil
}
