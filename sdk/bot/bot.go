package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/threecard/internal/protocol"
	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/sdk"
	"github.com/lox/threecard/sdk/client"
	"github.com/lox/threecard/sdk/config"
)

// RunOption configures the bot runner
type RunOption func(*runConfig)

type runConfig struct {
	logger    *log.Logger
	rng       *rand.Rand
	prefix    string
	useEnvCfg bool
}

// WithLogger sets a custom logger
func WithLogger(logger *log.Logger) RunOption {
	return func(cfg *runConfig) {
		cfg.logger = logger
	}
}

// WithRNG sets a custom random number generator
func WithRNG(rng *rand.Rand) RunOption {
	return func(cfg *runConfig) {
		cfg.rng = rng
	}
}

// WithPrefix sets the bot name prefix for ID generation
func WithPrefix(prefix string) RunOption {
	return func(cfg *runConfig) {
		cfg.prefix = prefix
	}
}

// WithoutEnvConfig stops Run from reading THREECARD_* variables
func WithoutEnvConfig() RunOption {
	return func(cfg *runConfig) {
		cfg.useEnvCfg = false
	}
}

// Run connects a bot handler to the dealer and plays until the context
// is cancelled or the game completes.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - handler: Bot implementation that handles game events
//   - serverURL: WebSocket dealer URL (e.g., "ws://localhost:8080/ws"); empty
//     reads THREECARD_SERVER
//   - name: Display name for this bot instance; empty uses THREECARD_BOT_ID
//     or an auto-generated one
//   - opts: Optional configuration (logger, RNG, prefix, etc.)
//
// Returns the final game summary, or an error if the connection fails or
// the bot encounters a fatal error.
func Run(ctx context.Context, handler sdk.Handler, serverURL, name string, opts ...RunOption) (*protocol.GameOver, error) {
	cfg := &runConfig{
		logger:    log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true}),
		prefix:    "bot",
		useEnvCfg: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Arguments win; the environment fills in what they leave empty
	var envCfg *config.BotConfig
	if cfg.useEnvCfg {
		envCfg, _ = config.FromEnv()
		if serverURL == "" && envCfg != nil {
			serverURL = envCfg.ServerURL
		}
	}
	if serverURL == "" {
		return nil, fmt.Errorf("no server URL: pass one or set %s", config.EnvServer)
	}

	if cfg.rng == nil {
		var seed int64
		if envCfg != nil {
			seed = envCfg.Seed
		}
		cfg.rng = randutil.New(randutil.Seed(seed))
	}

	id := name
	switch {
	case id != "":
	case envCfg != nil && envCfg.BotID != "":
		id = fmt.Sprintf("%s-%s", cfg.prefix, envCfg.BotID)
	default:
		id = fmt.Sprintf("%s-%04d", cfg.prefix, cfg.rng.IntN(10000))
	}

	c := client.New(id, handler, cfg.logger)
	if err := c.Connect(ctx, serverURL); err != nil {
		return nil, fmt.Errorf("connect failed: %w", err)
	}
	cfg.logger.Info("Bot connected", "id", id, "server", serverURL)

	if err := c.Run(ctx); err != nil {
		return c.Result(), err
	}
	return c.Result(), nil
}
