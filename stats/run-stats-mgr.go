package stats

import (
	"sync"

	"github.com/cevaris/ordered_map"
	"github.com/dwops/batchgate/logger"
)

type StatsFetcher interface {
	GetStats() []Stats
}

// RunStatsManager holds a StageWatcher per pipeline stage, in the order the
// stages were registered so summaries read in execution order.
type RunStatsManager struct {
	mu            sync.Mutex
	log           logger.Logger
	mapStageStats *ordered_map.OrderedMap
}

func NewRunStats(log logger.Logger) *RunStatsManager {
	return &RunStatsManager{log: log, mapStageStats: ordered_map.NewOrderedMap()}
}

// AddStageWatcher registers a watcher for the named stage. To be called once
// per stage as the orchestrator reaches it.
func (t *RunStatsManager) AddStageWatcher(stageName string) *StageWatcher {
	t.mu.Lock()
	defer t.mu.Unlock()
	sw := NewStageWatcher(stageName)
	t.mapStageStats.Set(stageName, sw)
	return sw
}

// LogStats writes one summary line per registered stage.
func (t *RunStatsManager) LogStats() {
	for _, s := range t.GetStats() {
		t.log.Info(s.String())
	}
}

// GetStats implements interface StatsFetcher.
func (t *RunStatsManager) GetStats() []Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	iter := t.mapStageStats.IterFunc()
	statsList := make([]Stats, 0)
	for kv, ok := iter(); ok; kv, ok = iter() { // for each registered stage...
		statsList = append(statsList, kv.Value.(*StageWatcher).RenderStats())
	}
	return statsList
}
