package ir

import (
	"errors"
	"log/slog"

	"github.com/arloliu/clpir/internal/options"
)

type decoderConfig struct {
	supportedVersion string
	logger           *slog.Logger
}

func newDecoderConfig() *decoderConfig {
	return &decoderConfig{
		supportedVersion: ProtocolVersion,
		logger:           slog.New(slog.DiscardHandler),
	}
}

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*decoderConfig]

// WithSupportedVersion overrides the newest protocol version the decoder
// accepts. It must itself be a "v"-prefixed semantic version.
func WithSupportedVersion(version string) DecoderOption {
	return options.New(func(c *decoderConfig) error {
		if !versionRegex.MatchString(version) {
			return errors.New("supported version must be a v-prefixed semantic version: " + version)
		}
		c.supportedVersion = version

		return nil
	})
}

// WithLogger sets the logger used for stream lifecycle messages.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) DecoderOption {
	return options.NoError(func(c *decoderConfig) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		c.logger = logger
	})
}
