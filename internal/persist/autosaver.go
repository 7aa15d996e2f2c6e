package persist

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/robfig/cron/v3"

	"blockstudio/internal/canvas"
	"blockstudio/internal/domain"
)

// DefaultDebounce is the trailing autosave window. A burst of commits
// inside the window produces exactly one save once mutation quiesces.
const DefaultDebounce = time.Second

// DefaultCheckpoint is the periodic checkpoint schedule — a safety net
// that flushes unsaved or failed state even when no further commit
// restarts the debounce timer.
const DefaultCheckpoint = "@every 5m"

// Autosaver schedules debounced background saves for one session.
// Commits capture the document synchronously (the editor is
// single-threaded by construction); only the store write happens off
// the event path, so saving never blocks interaction.
type Autosaver struct {
	gateway   *Gateway
	sess      *canvas.Session
	debounced func(func())
	logger    *slog.Logger
	cron      *cron.Cron

	mu     sync.Mutex
	latest domain.SessionDocument
	gen    int // bumped per commit; lets flush tell if new commits raced the write
	dirty  bool
}

// NewAutosaver wires an autosaver to a session's commit hook.
// window <= 0 uses DefaultDebounce.
func NewAutosaver(gateway *Gateway, sess *canvas.Session, window time.Duration, logger *slog.Logger) *Autosaver {
	if window <= 0 {
		window = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Autosaver{
		gateway:   gateway,
		sess:      sess,
		debounced: debounce.New(window),
		logger:    logger,
	}
	sess.OnCommit(a.Schedule)
	return a
}

// Schedule records the current state and (re)starts the debounce timer.
// Called from the session's commit hook; a new commit during the window
// restarts the timer, so a quiescent burst saves exactly once.
func (a *Autosaver) Schedule() {
	doc := a.gateway.Serialize(a.sess)

	a.mu.Lock()
	a.latest = doc
	a.gen++
	a.dirty = true
	a.mu.Unlock()

	a.debounced(a.flush)
}

// flush writes the most recently captured document. A transient failure
// is logged and leaves the state dirty, so the next debounce cycle or
// the periodic checkpoint retries.
func (a *Autosaver) flush() {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return
	}
	doc := a.latest
	gen := a.gen
	a.mu.Unlock()

	id, err := a.gateway.Save(doc)
	if err != nil {
		a.logger.Error("autosave failed", "session", doc.SessionID, "err", err)
		return
	}

	a.mu.Lock()
	if a.gen == gen {
		a.dirty = false
	}
	a.mu.Unlock()
	a.logger.Debug("session autosaved", "session", id, "blocks", len(doc.Blocks))
}

// StartCheckpoints begins the periodic checkpoint schedule ("" means
// DefaultCheckpoint). Returns a stop func.
func (a *Autosaver) StartCheckpoints(schedule string) (func(), error) {
	if schedule == "" {
		schedule = DefaultCheckpoint
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, a.flush); err != nil {
		return nil, err
	}
	c.Start()
	a.cron = c
	return func() { c.Stop() }, nil
}

// Flush forces an immediate save of any unsaved state. Used on shutdown.
func (a *Autosaver) Flush() {
	a.flush()
}
