package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor 按 cron 表达式定期清理过期结果
type Janitor struct {
	cron      *cron.Cron
	store     *Store
	retention time.Duration
}

func NewJanitor(store *Store, spec string, retention time.Duration) (*Janitor, error) {
	j := &Janitor{
		cron:      cron.New(),
		store:     store,
		retention: retention,
	}
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return nil, fmt.Errorf("cleanup spec %q: %w", spec, err)
	}
	return j, nil
}

func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop 停止调度并等待正在执行的清理结束
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) run() {
	n, err := j.store.Purge(time.Now(), j.retention)
	if err != nil {
		slog.Error("purge results", "error", err)
		return
	}
	if n > 0 {
		slog.Info("purged expired results", "count", n, "dir", j.store.Dir())
	}
}
