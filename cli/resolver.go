package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/quant/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.yaml")
//
// If the document has a top-level mapping under name, only that mapping is
// used; otherwise the whole document is. Nested mappings are flattened by
// joining keys with hyphens, so both of these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use underscores in place of hyphens. Lists set repeatable flags:
//
//	include: [~/units, /usr/share/quant]
//
// Command-line flags override config file values. A file that cannot be
// parsed is logged and ignored.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring invalid configuration",
					slog.Any("error", err))
			}

			return config{}, nil
		}

		if ns, ok := doc[name].(map[string]any); ok {
			doc = ns
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// flatten copies m into c, joining nested keys with hyphens.
func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = scalar(v)
	}
}

// scalar converts decoded YAML values to the forms kong's mappers accept.
// Kong parses numbers from strings, and lists are handed over element-wise.
func scalar(v any) any {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fmt.Sprint(scalar(e))
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := flag.Name

	if value, ok := c[name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(name, "_", "-")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
