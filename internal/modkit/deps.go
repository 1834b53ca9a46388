package modkit

import (
	"bugsift/internal/modkit/repokit"
	"bugsift/internal/platform/config"
	"bugsift/internal/platform/logger"
	"bugsift/internal/platform/store"
)

// Deps holds the shared dependencies handed to every module
// PG and CH are nil when the store is disabled
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore fills Deps from an opened store
func FromStore(cfg config.Conf, st *store.Store) Deps {
	d := Deps{Cfg: cfg, Log: logger.Get()}
	if st != nil {
		d.PG = st.PG
		d.CH = st.CH
	}
	return d
}
