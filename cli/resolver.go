package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads a flat YAML map of
// flag names to values, the format written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Keys may spell hyphens as underscores, so "log-level" and "log_level"
// both set --log-level. Sequences become repeated flag values:
//
//	log-level: debug
//	log-pretty: false
//	bindings:
//	  - ~/.config/expression-parser/bindings.yaml
//
// Command-line flags override config file values. A document that is not a
// YAML map is an error.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		values := map[string]any{}

		if err := yaml.UnmarshalContext(ctx, data, &values); err != nil {
			return nil, err
		}

		conf := make(config, len(values))

		for key, value := range values {
			conf[key] = flagValue(value)
		}

		return conf, nil
	}
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

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

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flagValue converts a decoded YAML value to a form kong can decode.
// Kong requires numbers as strings.
func flagValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = flagValue(item)
		}

		return items

	default:
		return v
	}
}
