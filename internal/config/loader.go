package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. CONTACTS_STORAGE_DSN
// overrides storage.dsn.
const envPrefix = "CONTACTS"

// Load reads a run file (JSON, YAML, or TOML, by extension) and applies
// defaults and environment overrides. path may be empty, in which case the
// model is built from defaults and environment alone.
func Load(path string) (Pipeline, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("job", "contacts")
	v.SetDefault("source.delimiter", ";")
	v.SetDefault("normalize.country_code", "971")
	v.SetDefault("normalize.local_digits", 10)
	v.SetDefault("storage.kind", "csv")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Pipeline{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var p Pipeline
	if err := v.Unmarshal(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return p, nil
}
