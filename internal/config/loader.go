package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/labindex/pkg/errors"
)

// EnvPrefix prefixes every labindex-specific environment variable.
const EnvPrefix = "LABINDEX_"

// standardEnv maps the conventional environment variables to config keys.
var standardEnv = map[string]string{
	"GITHUB_TOKEN":   "token",
	"GITHUB_ORG":     "org",
	"REPO_ALLOWLIST": "allow",
	"REPO_BLOCKLIST": "block",
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML or TOML) at path, or at LABINDEX_CONFIG when path is empty
//  3. GITHUB_TOKEN, GITHUB_ORG, REPO_ALLOWLIST, REPO_BLOCKLIST
//  4. env (prefix LABINDEX_)
//
// The result is not validated; call [Config.Validate] once flags are applied.
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config file %s", path)
		}
	}

	// Unknown variables map to "" and are skipped by the provider.
	standard := env.Provider("", ".", func(s string) string {
		return standardEnv[s]
	})
	if err := k.Load(standard, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load environment")
	}

	// LABINDEX_OUTPUT -> output, LABINDEX_FALLBACK_ENABLED -> fallback.enabled
	prefixed := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(prefixed, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load environment")
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}

	cfg.Allow = cleanNames(cfg.Allow)
	cfg.Block = cleanNames(cfg.Block)
	return &cfg, nil
}

// envKey maps a LABINDEX_ variable to its config key. Section prefixes
// become nested keys; everything else stays flat with underscores.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if s == "config" {
		return ""
	}
	for _, section := range []string{"fallback_", "metrics_"} {
		if strings.HasPrefix(s, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(s, section)
		}
	}
	return s
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return TOML(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config file %s (use .yaml, .yml or .toml)", path)
	}
}
