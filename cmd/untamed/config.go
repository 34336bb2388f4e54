package main

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// fileConfig holds flag defaults read from a TOML file.
//
//	output_dir = "dumps"
//	overwrite = true
//	compress = "zstd"
//	log_level = "debug"
//	report = "dumps/report.json"
type fileConfig struct {
	OutputDir string `toml:"output_dir"`
	Overwrite *bool  `toml:"overwrite"`
	Compress  string `toml:"compress"`
	LogLevel  string `toml:"log_level"`
	Report    string `toml:"report"`
}

func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("reading config %s: unknown key %q", path, undecoded[0].String())
	}
	return &cfg, nil
}

// apply sets every flag not given on the command line from the config.
// Values go through the flag set so they are parsed like command line input.
func (c *fileConfig) apply(flags *pflag.FlagSet) error {
	values := map[string]string{
		"output-dir": c.OutputDir,
		"compress":   c.Compress,
		"log-level":  c.LogLevel,
		"report":     c.Report,
	}
	if c.Overwrite != nil {
		values["overwrite"] = strconv.FormatBool(*c.Overwrite)
	}
	for name, value := range values {
		if value == "" || flags.Changed(name) {
			continue
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("config value for %s: %w", name, err)
		}
	}
	return nil
}
