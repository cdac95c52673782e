package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbarros/chessclub/internal/config"
	"github.com/pbarros/chessclub/internal/platform/logging"
)

func TestInitUptraceDisabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "chessclub-cli",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitPyroscopeDisabled(t *testing.T) {
	cfg := config.Config{
		PyroscopeEnabled: false,
		ServiceName:      "chessclub-cli",
		AppEnv:           config.EnvDev,
	}

	stop, err := InitPyroscope(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, stop())
}
