package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tinyscript/pkg"
)

// ErrConfig is returned when a configuration file cannot be decoded.
var ErrConfig = pkg.NewError("invalid configuration file")

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The document must be a mapping whose keys are flag names:
//   - Keys may use hyphens or underscores ("log-level" or "log_level")
//   - Nested mappings are flattened by joining keys with a hyphen, so
//     {log: {level: debug}} sets --log-level
//   - Numbers are converted to strings for Kong to parse
//   - Sequences set repeatable flags such as --include
//
// Example configuration file:
//
//	log:
//	  level: debug
//	  pretty: false
//	include:
//	  - ~/lib/prelude.ts
//
// Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, ErrConfig.Wrap(err)
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

func (r config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		r[key] = scalar(v)
	}
}

// scalar converts numbers, including those inside sequences, to strings.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = scalar(e)
		}

		return out
	}

	return v
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found: let Kong use defaults.
	return nil, nil
}
