// Package diagsink is the optional diagnostic sink: a place to persist one
// row per compilation-unit build (unresolved reference counts, structural
// error counts, copybook expansion depth reached) to a configured SQL
// Server or Postgres database, for a shop that wants build health tracked
// over time rather than read off stdout. Same YAML-backed connection
// string, same azuresql:// / sqlserver:// URI branching, same optional
// SOCKS5 tunnel via SQL_SOCKS as the rest of this tree's database wiring.
package diagsink

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/microsoft/go-mssqldb/msdsn"
)

// Config is one sink's connection configuration.
type Config struct {
	Connection string `yaml:"connection"`
	Dsn msdsn.Config
}

// LoadConfig reads a diagsink.Config from a YAML file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
