package persistence

import (
	"github.com/fieldhub/fbserver/internal/change"
	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/registry"
	"github.com/fieldhub/fbserver/pkg/log"
)

// LogSink is a placeholder Sink: the on-disk configuration file format is
// unspecified (spec.md §1 leaves persistence's backing store to the
// deployment), so this logs the CONFIG fields it would have written
// instead of committing to one. It exists so the scheduler has something
// real to drive until a deployment supplies its own Sink.
type LogSink struct{}

func (LogSink) Persist(ctx *regctx.Context, reg *registry.Registry) error {
	var tr change.Tracker
	items := tr.Report(ctx, reg, selectConfig)
	for _, it := range items {
		if it.Err != nil {
			log.Warnf("persistence: %s: %s", it.Name, it.Err)
			continue
		}
		log.Infof("persistence: %s=%s", it.Name, it.Value)
	}
	return nil
}

var selectConfig = func() [classes.NumCategories]bool {
	var s [classes.NumCategories]bool
	s[classes.CatConfig] = true
	return s
}()
