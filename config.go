package depot

import (
	"os"

	"github.com/TheBitDrifter/table"
	"github.com/rs/zerolog"
)

// Option configures a Registry at construction time
type Option func(*Registry)

// WithLogger replaces the registry logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(reg *Registry) {
		reg.logger = logger
	}
}

// WithPrettyLog logs human readable lines to stderr
func WithPrettyLog() Option {
	return func(reg *Registry) {
		reg.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
}

// WithAttachPolicy sets the policy every storage of the registry uses. The default is PolicyReplace.
func WithAttachPolicy(policy AttachPolicy) Option {
	return func(reg *Registry) {
		reg.policy = policy
	}
}

// WithInitialCapacity pre-sizes the slot table and every storage
func WithInitialCapacity(n int) Option {
	return func(reg *Registry) {
		if n > 0 {
			reg.initialCapacity = n
		}
	}
}

// WithSchema makes the registry assign component bits from an existing schema
func WithSchema(schema table.Schema) Option {
	return func(reg *Registry) {
		reg.schema = schema
	}
}
