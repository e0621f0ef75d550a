package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Addr is the listen address for the HTTP server, in host:port form.
	Addr string `koanf:"addr" validate:"required"`

	// DBPath is the filesystem path of the bolt database holding counters
	// and the activity log.
	DBPath string `koanf:"db_path" validate:"required"`

	// BlockedCountries is the list of ISO-2 country codes to deny.
	// Codes are uppercased and deduplicated during load; the decision
	// engine itself performs exact case-sensitive matching only.
	BlockedCountries []string `koanf:"blocked_countries" validate:"dive,iso_country"`

	// CountryHeader is the request header carrying the upstream-resolved
	// country code (set by a CDN or geo-aware proxy).
	CountryHeader string `koanf:"country_header" validate:"required"`

	// TrustedHeader marks a request as coming from a trusted operator when
	// present with a non-empty value. Spoofable unless stripped at the edge.
	TrustedHeader string `koanf:"trusted_header" validate:"required"`

	// AdminPrefixes are path prefixes never subject to blocking.
	AdminPrefixes []string `koanf:"admin_prefixes"`

	// APIPrefixes are machine API path prefixes never subject to blocking.
	APIPrefixes []string `koanf:"api_prefixes"`

	// WindowDays is the trailing aggregation window in calendar days.
	WindowDays int `koanf:"window_days" validate:"required,gte=1,lte=365"`

	// LogCapacity bounds the activity log; oldest entries are evicted.
	LogCapacity int `koanf:"log_capacity" validate:"required,gte=1"`

	// PageSize is the activity search page size.
	PageSize int `koanf:"page_size" validate:"required,gte=1"`

	// CacheSize bounds the LRU cache of read-only past day buckets.
	CacheSize int `koanf:"cache_size" validate:"required,gte=1"`
}

// DEFAULT_APP_CONFIG defines the default application configuration. The
// default blocklist matches the countries the service was first deployed
// to fence off.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:              "prod",
	LogLevel:         "info",
	Addr:             ":8080",
	DBPath:           "/var/lib/geofence/geofence.db",
	BlockedCountries: []string{"CN", "RU", "SG", "BR"},
	CountryHeader:    "X-Country-Code",
	TrustedHeader:    "X-Trusted-Operator",
	AdminPrefixes:    []string{"/admin", "/wp-admin"},
	APIPrefixes:      []string{"/api"},
	WindowDays:       30,
	LogCapacity:      200,
	PageSize:         25,
	CacheSize:        64,
}

// validISOCountry accepts exactly two uppercase ASCII letters.
func validISOCountry(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 2 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// envLoader loads environment variables with the prefix "GEO_", lowercasing
// keys and splitting comma- or space-separated values into slices.
// It is a package var so tests can substitute it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "GEO_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "GEO_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader seeds the koanf instance from DEFAULT_APP_CONFIG.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation wires the custom "iso_country" rule.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("iso_country", validISOCountry)
}

// normalizeCountries uppercases codes and drops duplicates, preserving the
// first occurrence's position.
func normalizeCountries(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Load parses environment variables into an AppConfig, applying defaults,
// blocklist normalization, and validation.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Normalize before validation so the iso_country rule sees final codes.
	cfg.BlockedCountries = normalizeCountries(cfg.BlockedCountries)

	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
