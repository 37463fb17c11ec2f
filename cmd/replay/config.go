package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Run describes one replay instance. Several runs replay the same trace
// independently, each with its own cache instance.
type Run struct {
	Name      string `mapstructure:"name"`
	Policy    string `mapstructure:"policy"`
	Params    string `mapstructure:"params"`
	Capacity  int64  `mapstructure:"capacity"`
	Hashpower int    `mapstructure:"hashpower"`
	Seed      int64  `mapstructure:"seed"`
	Metadata  bool   `mapstructure:"consider_obj_metadata"`
}

// loadRuns reads a YAML run list:
//
//	runs:
//	  - name: watt-1g
//	    policy: watt
//	    params: "n-sample=64"
//	    capacity: 1073741824
//	    seed: 1
func loadRuns(path string) ([]Run, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg struct {
		Runs []Run `mapstructure:"runs"`
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Runs) == 0 {
		return nil, fmt.Errorf("config %s: no runs defined", path)
	}
	for i := range cfg.Runs {
		r := &cfg.Runs[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("run-%d", i)
		}
		if r.Capacity <= 0 {
			return nil, fmt.Errorf("config %s: run %q: capacity must be > 0", path, r.Name)
		}
	}
	return cfg.Runs, nil
}
