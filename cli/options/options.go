// Package options contains a set of common CLI options and helper functions to use them.
package options

import (
	"github.com/tidechain/tide-go/pkg/config"
	"github.com/tidechain/tide-go/pkg/core/dao"
	"github.com/tidechain/tide-go/pkg/core/storage"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigPath is a flag pointing at the node configuration file.
var ConfigPath = cli.StringFlag{
	Name:  "config-path, c",
	Usage: "path to the node configuration file",
	Value: "./config/protocol.mainnet.yml",
}

// GetConfigFromContext looks at the path option in the given context and
// returns a loaded app config.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	return config.Load(ctx.String("config-path"))
}

// GetDAOFromContext opens the store named in the configuration and wraps
// it into a DAO. The caller closes it through the returned DAO's Store.
func GetDAOFromContext(ctx *cli.Context) (*dao.Simple, error) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return dao.NewSimple(store), nil
}

// HandleLoggingParams reads logging parameters from the application
// configuration and returns a logger built from them.
func HandleLoggingParams(cfg config.ApplicationConfiguration) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, err
		}
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)

	return cc.Build()
}
