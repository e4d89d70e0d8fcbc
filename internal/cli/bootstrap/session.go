package bootstrap

import (
	"fmt"
	"path/filepath"

	"ClinicDesk/internal/cli/repo"
	fsrepo "ClinicDesk/internal/cli/repo/fs"
	"ClinicDesk/internal/cli/repo/memory"
	reposqlite "ClinicDesk/internal/cli/repo/sqlite"
	"ClinicDesk/internal/cli/session"
	"ClinicDesk/internal/config"
)

// OpenSession собирает хранилище сессии из двух уровней согласно конфигурации
// и возвращает (store, cleanup, error).
// cleanup необходимо вызвать по завершении команды, чтобы закрыть БД (для sqlite-уровня).
func OpenSession(cfg *config.Config) (*session.Store, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("nil config")
	}
	cleanup := func() error { return nil }

	var durable repo.KVStore
	switch cfg.DurableBackend {
	case "sqlite":
		base, err := fsrepo.NewDurable()
		if err != nil {
			return nil, nil, fmt.Errorf("locate config dir: %w", err)
		}
		r, _, err := reposqlite.Open(filepath.Clean(base.Dir))
		if err != nil {
			return nil, nil, fmt.Errorf("open session db: %w", err)
		}
		if err := r.Migrate(); err != nil {
			_ = r.Close()
			return nil, nil, fmt.Errorf("migrate session db: %w", err)
		}
		durable = r
		cleanup = r.Close
	default:
		st, err := fsrepo.NewDurable()
		if err != nil {
			return nil, nil, fmt.Errorf("locate config dir: %w", err)
		}
		durable = st
	}

	var tab repo.KVStore
	switch cfg.TabBackend {
	case "memory":
		tab = memory.NewKVStore()
	default:
		tab = fsrepo.NewTab(cfg.TabID)
	}

	return session.NewStore(durable, tab, session.Options{ExclusiveTiers: cfg.ExclusiveTiers}), cleanup, nil
}
