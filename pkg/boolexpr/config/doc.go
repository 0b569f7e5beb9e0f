/*
Package config provides typed access to engine settings and rule-set
documents decoded from YAML or JSON.

# Overview

Config wraps a map[string]any. Accessors take a default that is returned
when the key is missing or holds a value of the wrong type, so callers never
deal with type assertions or nil checks.

	cfg, err := config.FromFile("rules.yaml")
	if err != nil {
	    return err
	}

	size := cfg.Int("cache_size", 1024)
	rules := cfg.StringMap("rules", nil)
	params := cfg.Sub("params")
	tags := cfg.Sub("rules").Sub("vip").StringSlice("tags", nil)

# Type Coercion

  - Int accepts int, int64 and whole float64 values (JSON numbers).
  - StringSlice and StringMap require every element to be a string.
  - Sub returns an empty Config for anything that is not a map.

# Thread Safety

Config is safe for concurrent reads. It never modifies the wrapped map.
*/
package config
