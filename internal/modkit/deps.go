package modkit

import (
	"taxintake/internal/modkit/repokit"
	"taxintake/internal/platform/config"
	"taxintake/internal/platform/logger"
	"taxintake/internal/platform/store"
)

// Deps holds what every module may use. PG, CH and Cache are nil when the
// backend is disabled, modules pick a fallback or skip the feature
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	CH    store.Clickhouse
	Cache store.Cache
}

// FromStore copies the opened backends out of st
func FromStore(cfg config.Conf, log logger.Logger, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.PG, d.CH, d.Cache = st.PG, st.CH, st.Cache
	}
	return d
}
