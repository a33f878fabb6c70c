package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/regatta-nav/api/model"
	"github.com/a-bouts/regatta-nav/race"
	"github.com/a-bouts/regatta-nav/route"
)

func (s *Server) health(w http.ResponseWriter, req *http.Request) {
	type health struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}

	writeJSON(w, http.StatusOK, health{Status: "ok", Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) version(w http.ResponseWriter, req *http.Request) {
	type version struct {
		Version string `json:"version"`
		Race    string `json:"race"`
	}

	writeJSON(w, http.StatusOK, version{Version: Version, Race: s.Race().Name})
}

func (s *Server) buoys(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, model.NewBuoys(s.Race()))
}

func (s *Server) legs(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, model.SortedLegs(s.Race()))
}

func (s *Server) estimate(w http.ResponseWriter, req *http.Request) {
	q, err := model.ParseEstimate(req.URL.Query())
	if err == nil {
		q.Reverse = false
		err = s.validator.Struct(q)
	}
	if err != nil {
		writeFailure(w, "Invalid request", err)
		return
	}
	s.writeEstimate(w, req, q.From, q.To, q.Time)
}

// estimateLeg is estimate with an optional reverse flag swapping the ends.
func (s *Server) estimateLeg(w http.ResponseWriter, req *http.Request) {
	q, err := model.ParseEstimate(req.URL.Query())
	if err == nil {
		err = s.validator.Struct(q)
	}
	if err != nil {
		writeFailure(w, "Invalid request", err)
		return
	}
	if q.Reverse {
		q.From, q.To = q.To, q.From
	}
	s.writeEstimate(w, req, q.From, q.To, q.Time)
}

func (s *Server) writeEstimate(w http.ResponseWriter, req *http.Request, from, to string, t float64) {
	r := s.Race()
	fi, ok := buoyIndex(w, r, "From", from)
	if !ok {
		return
	}
	ti, ok := buoyIndex(w, r, "To", to)
	if !ok {
		return
	}

	p, err := route.Estimate(r, fi, ti, t)
	s.metrics.RecordEstimate(err)
	if err != nil {
		writeFailure(w, "Estimation failed", err)
		return
	}

	requestLogger(req, "estimate").Debugf("Estimate %s -> %s at %.2fh : %.2f kt", from, to, t, p.Speed)
	writeJSON(w, http.StatusOK, model.Estimate{From: from, To: to, Time: t, Performance: p})
}

func (s *Server) checkTime(w http.ResponseWriter, r *race.Race, t float64) bool {
	if t < 0 || t > r.Duration {
		writeError(w, http.StatusBadRequest, "Invalid time", fmt.Sprintf("Time must be between 0 and %g hours", r.Duration))
		return false
	}
	return true
}

func (s *Server) findPaths(w http.ResponseWriter, req *http.Request) {
	q, err := model.ParseFindPaths(req.URL.Query())
	if err != nil {
		writeFailure(w, "Invalid request", err)
		return
	}
	r := s.Race()
	if !s.checkTime(w, r, q.Time) {
		return
	}
	if err := s.validator.Struct(q); err != nil {
		writeFailure(w, "Invalid request", err)
		return
	}
	start, ok := buoyIndex(w, r, "Starting", q.Start)
	if !ok {
		return
	}

	defer s.profile()()
	logger := requestLogger(req, "find-paths")
	logger.Infof("Find paths from '%s' at %.2fh in %d steps (max %d)", q.Start, q.Time, q.Steps, q.MaxPaths)

	key := fmt.Sprintf("paths|%d|%v|%d|%d", start, q.Time, q.Steps, q.MaxPaths)
	paths, _, err := s.explore(r, "paths", key, func(e *route.Explorer) ([]route.Path, error) {
		return e.ExploreConcurrent(start, q.Time, q.Steps, q.MaxPaths)
	})
	if err != nil {
		logger.Warnf("Path exploration failed : %v", err)
		writeFailure(w, "Path exploration failed", err)
		return
	}

	writeJSON(w, http.StatusOK, model.Paths{
		Start:     q.Start,
		StartTime: q.Time,
		Steps:     q.Steps,
		MaxPaths:  q.MaxPaths,
		Count:     len(paths),
		Paths:     model.NewPaths(r, paths),
	})
}

func (s *Server) findTargets(w http.ResponseWriter, req *http.Request) {
	q, err := model.ParseFindTargets(req.URL.Query())
	if err != nil {
		writeFailure(w, "Invalid request", err)
		return
	}
	r := s.Race()
	if !s.checkTime(w, r, q.Time) {
		return
	}
	if err := s.validator.Struct(q); err != nil {
		writeFailure(w, "Invalid request", err)
		return
	}
	start, ok := buoyIndex(w, r, "Starting", q.Start)
	if !ok {
		return
	}
	target, ok := buoyIndex(w, r, "Target", q.Target)
	if !ok {
		return
	}

	defer s.profile()()
	logger := requestLogger(req, "find-targets")
	logger.Infof("Find paths from '%s' to '%s' at %.2fh in %d steps (max %d)", q.Start, q.Target, q.Time, q.Steps, q.MaxPaths)

	key := fmt.Sprintf("targets|%d|%d|%v|%d|%d", start, target, q.Time, q.Steps, q.MaxPaths)
	paths, cached, err := s.explore(r, "targets", key, func(e *route.Explorer) ([]route.Path, error) {
		return e.ExploreToTargetConcurrent(start, target, q.Time, q.Steps, q.MaxPaths)
	})
	if err != nil {
		logger.Warnf("Target exploration failed : %v", err)
		writeFailure(w, "Path exploration failed", err)
		return
	}

	if !cached {
		s.notify(r, q.Time, paths)
	}

	writeJSON(w, http.StatusOK, model.Paths{
		Start:     q.Start,
		Target:    q.Target,
		StartTime: q.Time,
		Steps:     q.Steps,
		MaxPaths:  q.MaxPaths,
		Count:     len(paths),
		Paths:     model.NewPaths(r, paths),
	})
}

// explore runs fn on a fresh explorer unless key is cached. The result is
// only cached while r is still the current race.
func (s *Server) explore(r *race.Race, mode string, key string, fn func(*route.Explorer) ([]route.Path, error)) ([]route.Path, bool, error) {
	if s.cache != nil {
		if paths, ok := s.cache.Get(key); ok {
			s.metrics.RecordCache(true)
			return paths, true, nil
		}
		s.metrics.RecordCache(false)
	}

	e := route.NewExplorer(r)
	e.Workers = s.workers

	start := time.Now()
	paths, err := fn(e)
	s.metrics.RecordExploration(mode, time.Since(start), len(paths), e.Ops(), err)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		s.lock.RLock()
		if s.race == r {
			s.cache.Add(key, paths)
		}
		s.lock.RUnlock()
	}
	return paths, false, nil
}

// notify sends the fastest route, formatted like "S-A-F : 2.35h 10.0nm (12 paths)".
func (s *Server) notify(r *race.Race, startTime float64, paths []route.Path) {
	if s.notifier == nil {
		return
	}
	best, ok := route.Fastest(paths)
	if !ok {
		return
	}

	names := []string{r.Buoys[best.Steps[0].From].Name}
	for _, st := range best.Steps {
		names = append(names, r.Buoys[st.To].Name)
	}
	msg := fmt.Sprintf("%s : %.2fh %.1fnm (%d paths)", strings.Join(names, "-"), best.EndTime-startTime, best.Distance, len(paths))
	if err := s.notifier.Send(msg); err != nil {
		log.Warnf("Notification failed : %v", err)
	}
}

func (s *Server) refreshWind(w http.ResponseWriter, req *http.Request) {
	type refresh struct {
		Status  string `json:"status"`
		Samples int    `json:"samples"`
	}

	if s.refresh == nil {
		writeError(w, http.StatusNotImplemented, "Refresh unavailable", "No wind source to reload")
		return
	}

	requestLogger(req, "refresh").Info("Refresh wind")
	if err := s.refresh(); err != nil {
		s.metrics.RecordWindRefresh(0, err)
		writeError(w, http.StatusInternalServerError, "Refresh failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, refresh{Status: "ok", Samples: s.Race().Wind.Len()})
}
