package clpir

import (
	"log/slog"

	"github.com/arloliu/clpir/internal/options"
	"github.com/arloliu/clpir/ir"
)

type config struct {
	logger           *slog.Logger
	supportedVersion string
	tokens           ir.TokenDecoder
}

func newConfig() *config {
	return &config{
		logger:           slog.New(slog.DiscardHandler),
		supportedVersion: ir.ProtocolVersion,
		tokens:           &ir.TokenSettings{},
	}
}

// Option configures Open.
type Option = options.Option[*config]

// WithLogger sets the logger used by Open and the stream decoder.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		c.logger = logger
	})
}

// WithSupportedVersion overrides the newest protocol version Open accepts.
func WithSupportedVersion(version string) Option {
	return options.NoError(func(c *config) {
		c.supportedVersion = version
	})
}

// WithTokenDecoder sets the collaborator that receives the stream's time
// zone and timestamp pattern. The default is an *ir.TokenSettings.
func WithTokenDecoder(tokens ir.TokenDecoder) Option {
	return options.NoError(func(c *config) {
		c.tokens = tokens
	})
}
