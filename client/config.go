package client

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Config lists the Toolbox servers available to the application.
type Config struct {
	Servers []*ServerConfig `json:"servers" yaml:"servers"`
}

// ServerConfig describes a single Toolbox server.
type ServerConfig struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	URL  string `json:"url" yaml:"url" validate:"required,url"`
	// Toolset is the default toolset loaded for this server,
	// empty loads all tools.
	Toolset string `json:"toolset,omitempty" yaml:"toolset,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	for _, srv := range cfg.Servers {
		if err := validate.Struct(srv); err != nil {
			return nil, errors.Wrapf(err, "invalid server configuration: %q", srv.Name)
		}
	}
	return cfg, nil
}
