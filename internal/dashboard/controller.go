package dashboard

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go-chart-dashboard/internal/model"
	"go-chart-dashboard/internal/store"
)

// DefaultQuietPeriod is how long the chart list must stay untouched before
// a snapshot write fires
const DefaultQuietPeriod = 500 * time.Millisecond

// Controller owns the chart list and dashboard metadata for one
// authenticated session. Construct one per session, never process-wide.
//
// Every mutation schedules a debounced snapshot write through the gateway;
// a newer mutation restarts the timer, so only the last write of a burst
// executes. Writes are scheduled only while a dataset is loaded, a snapshot
// without a source file is meaningless to restore. Close cancels whatever
// is pending; nothing fires after teardown.
type Controller struct {
	mu      sync.Mutex
	gateway store.SnapshotStore
	key     string
	quiet   time.Duration

	charts   []model.ChartConfig
	title    string
	fileName string
	restored bool
	dataset  *model.Dataset

	timer  *time.Timer
	closed bool
}

// NewController builds an empty controller persisting under key. A quiet
// period of 0 falls back to DefaultQuietPeriod.
func NewController(gateway store.SnapshotStore, key string, quiet time.Duration) *Controller {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Controller{
		gateway: gateway,
		key:     key,
		quiet:   quiet,
		charts:  make([]model.ChartConfig, 0),
	}
}

// CreateOrUpdate validates cfg and either replaces the chart with the same
// id in place or appends it. Rejection leaves the list untouched. A blank id
// marks a creation and gets a fresh one assigned; the stored config is
// returned so callers see it.
func (c *Controller) CreateOrUpdate(cfg model.ChartConfig) (model.ChartConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var known []string
	if c.dataset != nil {
		known = c.dataset.Columns
	}
	if err := ValidateChartConfig(cfg, known); err != nil {
		return model.ChartConfig{}, err
	}

	if cfg.ID == "" {
		cfg.ID = model.NewChartID()
	}
	replaced := false
	for i := range c.charts {
		if c.charts[i].ID == cfg.ID {
			c.charts[i] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		c.charts = append(c.charts, cfg)
	}
	c.scheduleSaveLocked()
	return cfg, nil
}

// Remove deletes the chart with the given id. An unknown id is a no-op,
// not an error.
func (c *Controller) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.charts {
		if c.charts[i].ID == id {
			c.charts = append(c.charts[:i], c.charts[i+1:]...)
			c.scheduleSaveLocked()
			return
		}
	}
}

// ClearAll empties the chart list. Title and file name stay.
func (c *Controller) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.charts = make([]model.ChartConfig, 0)
	c.scheduleSaveLocked()
}

// Charts returns a sorted copy of the chart list
func (c *Controller) Charts(key model.SortKey) []model.ChartConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SortCharts(c.charts, key)
}

// Chart looks up a single chart by id
func (c *Controller) Chart(id string) (model.ChartConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cfg := range c.charts {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return model.ChartConfig{}, false
}

// SetTitle renames the dashboard
func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.title = title
	c.scheduleSaveLocked()
}

// SetDataset attaches a freshly decoded row set. A file name that differs
// from the current one, or any upload into a session that was not restored,
// starts a new dashboard: the chart list resets and the title derives from
// the file name. When the name matches the one a restore brought back, the
// restored charts are kept, the user is re-supplying the dataset those
// charts were built on. Names are compared as names, never content.
func (c *Controller) SetDataset(ds *model.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keep := c.restored && ds.FileName == c.fileName
	if !keep {
		c.charts = make([]model.ChartConfig, 0)
		c.title = titleFromFileName(ds.FileName)
	}
	c.restored = false
	c.fileName = ds.FileName
	c.dataset = ds
	c.scheduleSaveLocked()
}

// Dataset returns the currently loaded row set, nil before any upload
func (c *Controller) Dataset() *model.Dataset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataset
}

// ReplaceFromSnapshot bulk-sets charts, title and file name atomically and
// marks the session restored. Session restore is the one caller; accepted
// suggestion batches go through CreateOrUpdate item by item instead.
func (c *Controller) ReplaceFromSnapshot(snap *model.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	charts := make([]model.ChartConfig, len(snap.Charts))
	copy(charts, snap.Charts)
	c.charts = charts
	c.title = snap.DashboardTitle
	c.fileName = snap.FileName
	c.restored = true
	c.scheduleSaveLocked()
}

// Snapshot captures the current persistable state
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Title returns the dashboard title
func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// FileName returns the current source file name, "" before any upload or
// restore
func (c *Controller) FileName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileName
}

// Restored reports whether this session came back from a snapshot and has
// not yet re-received its dataset
func (c *Controller) Restored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restored
}

// HasData reports whether a dataset is loaded
func (c *Controller) HasData() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataset != nil
}

// Close cancels any pending snapshot write. A closed controller never
// writes again; stale state must not resurrect after an explicit teardown.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) snapshotLocked() model.Snapshot {
	charts := make([]model.ChartConfig, len(c.charts))
	copy(charts, c.charts)
	return model.Snapshot{
		Charts:         charts,
		FileName:       c.fileName,
		DashboardTitle: c.title,
	}
}

// scheduleSaveLocked restarts the debounce timer. Callers hold c.mu.
func (c *Controller) scheduleSaveLocked() {
	if c.closed || c.dataset == nil {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.quiet, c.flush)
}

// flush performs the debounced write. It re-checks under the lock so a
// timer that was already in flight when Close ran becomes a no-op.
func (c *Controller) flush() {
	c.mu.Lock()
	if c.closed || c.dataset == nil {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.gateway.Save(context.Background(), c.key, &snap); err != nil {
		fmt.Printf("❌ Dashboard: saving snapshot under %s failed: %v\n", c.key, err)
		return
	}
	fmt.Printf("💾 Dashboard: snapshot saved under %s (%d charts)\n", c.key, len(snap.Charts))
}

// titleFromFileName strips the extension: "sales_2024.xlsx" titles the
// dashboard "sales_2024"
func titleFromFileName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
