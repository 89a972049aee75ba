package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type options struct {
	prefix      string
	envFiles    []string
	environment map[string]string
}

// Option configures Load.
type Option func(*options)

// WithPrefix only reads variables starting with prefix; the prefix is stripped
// before matching struct tags.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles replaces the default ".env" file list. Missing files are skipped.
// Passing no files disables dotenv loading.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

// WithEnvironment parses from the given map instead of the process environment.
// Dotenv files are not loaded in this mode.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) {
		o.environment = vars
		o.envFiles = nil
	}
}

// Load populates v from environment variables according to its `env` tags.
//
// Example:
//
//	type StripeConfig struct {
//		SecretKey string `env:"STRIPE_SECRET_KEY,required"`
//		YearlyID  string `env:"STRIPE_YEARLY_PLAN_ID"`
//	}
//
//	var cfg StripeConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(o)
	}

	for _, file := range o.envFiles {
		// Existing variables win; a missing file is not an error.
		_ = godotenv.Load(file)
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:      o.prefix,
		Environment: o.environment,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
