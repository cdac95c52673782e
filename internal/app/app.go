package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pbarros/chessclub/external/chesscom"
	"github.com/pbarros/chessclub/internal/config"
	"github.com/pbarros/chessclub/internal/platform/cache"
	"github.com/pbarros/chessclub/internal/platform/logging"
	"github.com/pbarros/chessclub/internal/usecase"
)

// App wires the provider client, the response cache and the club service.
type App struct {
	Service *usecase.ClubService
	Cache   *cache.Store
	Client  *chesscom.Client
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		path, err := cachePath(cfg)
		if err != nil {
			return nil, err
		}
		store = cache.NewStore(path, logger)
	}

	var auth chesscom.AuthProvider
	if cfg.SessionCookie != "" || len(cfg.AuthHeaders) > 0 {
		cookies := map[string]string{}
		if cfg.SessionCookie != "" {
			cookies["PHPSESSID"] = cfg.SessionCookie
		}
		auth = chesscom.NewStaticAuth(cookies, cfg.AuthHeaders)
	}

	client := chesscom.NewClient(chesscom.ClientConfig{
		BaseURL:      cfg.ChessComBaseURL,
		WebBaseURL:   cfg.ChessComWebBaseURL,
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RequestDelay: cfg.RequestDelay,
		EndBuffer:    cfg.ScanEndBuffer,
		ScanWorkers:  cfg.ScanWorkers,
		Auth:         auth,
		Cache:        store,
		Logger:       logger,
	})

	service := usecase.NewClubService(client, logger, cfg.RequestDelay)

	return &App{
		Service: service,
		Cache:   store,
		Client:  client,
	}, nil
}

func (a *App) Close() error {
	if a.Cache == nil {
		return nil
	}
	return a.Cache.Close()
}

func cachePath(cfg config.Config) (string, error) {
	dir := cfg.CacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("resolve user cache dir: %w", err)
		}
		dir = filepath.Join(base, "chessclub")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return filepath.Join(dir, cfg.CacheFile), nil
}
