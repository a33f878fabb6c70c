package wind

import (
	"sync"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"
)

// Watcher keeps the current schedule and refreshes it periodically.
type Watcher struct {
	load     func() (*Schedule, error)
	onUpdate func(*Schedule)
	schedule *Schedule
	lock     sync.RWMutex
	stop     chan bool
}

func NewWatcher(load func() (*Schedule, error), onUpdate func(*Schedule)) (*Watcher, error) {
	s, err := load()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		load:     load,
		onUpdate: onUpdate,
		schedule: s,
	}, nil
}

func (w *Watcher) Schedule() *Schedule {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.schedule
}

// Refresh reloads the schedule. On error the previous one is kept.
func (w *Watcher) Refresh() error {
	s, err := w.load()
	if err != nil {
		log.WithError(err).Error("Error refreshing winds")
		return err
	}

	w.lock.Lock()
	w.schedule = s
	w.lock.Unlock()

	log.Debugf("Winds refreshed : %d samples", s.Len())
	if w.onUpdate != nil {
		w.onUpdate(s)
	}
	return nil
}

// Start refreshes the schedule every interval seconds.
func (w *Watcher) Start(interval uint64) {
	if interval == 0 {
		return
	}
	s := gocron.NewScheduler()
	s.Every(interval).Seconds().Do(w.Refresh)

	w.stop = s.Start()
}

func (w *Watcher) Stop() {
	if w.stop != nil {
		w.stop <- true
		w.stop = nil
	}
}
