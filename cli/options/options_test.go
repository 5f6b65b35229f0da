package options

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidechain/tide-go/pkg/config"
	"github.com/urfave/cli"
	"go.uber.org/zap/zapcore"
)

func TestGetConfigFromContext(t *testing.T) {
	set := flag.NewFlagSet("flagSet", flag.ExitOnError)
	set.String("config-path", "../../config/protocol.unittest.yml", "")
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	cfg, err := GetConfigFromContext(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(42), cfg.ProtocolConfiguration.Magic)
	require.Equal(t, "debug", cfg.ApplicationConfiguration.LogLevel)
}

func TestGetDAOFromContext(t *testing.T) {
	set := flag.NewFlagSet("flagSet", flag.ExitOnError)
	set.String("config-path", "../../config/protocol.unittest.yml", "")
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	d, err := GetDAOFromContext(ctx)
	require.NoError(t, err)
	require.NoError(t, d.Store.Close())
}

func TestHandleLoggingParams(t *testing.T) {
	log, err := HandleLoggingParams(config.ApplicationConfiguration{LogLevel: "debug"})
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = HandleLoggingParams(config.ApplicationConfiguration{})
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = HandleLoggingParams(config.ApplicationConfiguration{LogLevel: "qwerty"})
	require.Error(t, err)
}
