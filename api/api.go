package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/regatta-nav/api/model"
	"github.com/a-bouts/regatta-nav/metrics"
	"github.com/a-bouts/regatta-nav/race"
	"github.com/a-bouts/regatta-nav/route"
	"github.com/a-bouts/regatta-nav/wind"
)

// Version is set at build time.
var Version = "dev"

// Notifier receives a short summary of the fastest route to a target.
type Notifier interface {
	Send(message string) error
}

type Options struct {
	Cpuprofile bool
	CacheSize  int
	Workers    int
	Metrics    *metrics.Registry
	Notifier   Notifier
	// Refresh reloads the wind, see Server.UpdateWind.
	Refresh func() error
}

type Server struct {
	Router *mux.Router

	cpuprofile  bool
	profileLock sync.Mutex
	workers     int
	metrics     *metrics.Registry
	notifier    Notifier
	refresh     func() error
	validator   *model.Validator
	cache       *lru.Cache[string, []route.Path]

	lock sync.RWMutex
	race *race.Race
}

func InitServer(r *race.Race, o Options) (*Server, error) {
	if o.Metrics == nil {
		o.Metrics = metrics.NewRegistry()
	}

	s := &Server{
		cpuprofile: o.Cpuprofile,
		workers:    o.Workers,
		metrics:    o.Metrics,
		notifier:   o.Notifier,
		refresh:    o.Refresh,
		validator:  model.NewValidator(),
		race:       r,
	}
	if o.CacheSize > 0 {
		cache, err := lru.New[string, []route.Path](o.CacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.instrument)

	router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	router.HandleFunc("/version", s.version).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/buoys", s.buoys).Methods(http.MethodGet)
	api.HandleFunc("/legs", s.legs).Methods(http.MethodGet)
	api.HandleFunc("/estimate", s.estimate).Methods(http.MethodGet)
	api.HandleFunc("/estimateleg", s.estimateLeg).Methods(http.MethodGet)
	api.HandleFunc("/find-paths", s.findPaths).Methods(http.MethodGet)
	api.HandleFunc("/find-targets", s.findTargets).Methods(http.MethodGet)
	api.HandleFunc("/wind/refresh", s.refreshWind).Methods(http.MethodGet, http.MethodPost)

	s.Router = router
	return s, nil
}

// Handler wraps the router with CORS and an access log.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)
	return handlers.LoggingHandler(log.StandardLogger().Writer(), cors(s.Router))
}

// Race is the current snapshot.
func (s *Server) Race() *race.Race {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.race
}

// UpdateWind swaps in a race snapshot using w and drops cached
// explorations.
func (s *Server) UpdateWind(w *wind.Schedule) {
	s.lock.Lock()
	s.race = s.race.WithWind(w)
	if s.cache != nil {
		s.cache.Purge()
	}
	s.lock.Unlock()

	s.metrics.RecordWindRefresh(w.Len(), nil)
	log.Infof("Wind updated : %d samples", w.Len())
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req.WithContext(context.WithValue(req.Context(), requestIDKey{}, id)))

		path := req.URL.Path
		if r := mux.CurrentRoute(req); r != nil {
			if tpl, err := r.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		s.metrics.RecordHTTPRequest(req.Method, path, rec.status, time.Since(start))
	})
}

func requestLogger(req *http.Request, action string) *log.Entry {
	fields := log.Fields{
		"action": action,
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	if id, ok := req.Context().Value(requestIDKey{}).(string); ok {
		fields["request"] = id
	}
	return log.WithFields(fields)
}

// profile starts a cpu profile when enabled and returns its stop function.
func (s *Server) profile() func() {
	if !s.cpuprofile {
		return func() {}
	}
	s.profileLock.Lock()
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	return func() {
		p.Stop()
		s.profileLock.Unlock()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("Error encoding response : %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, title string, message string) {
	writeJSON(w, status, model.Error{Error: title, Message: message})
}

// writeFailure maps err to a status code and an error body.
func writeFailure(w http.ResponseWriter, title string, err error) {
	var qe *model.QueryError
	switch {
	case errors.As(err, &qe):
		writeError(w, http.StatusBadRequest, qe.Title(), qe.Message)
	case errors.Is(err, route.ErrBuoyIndex), errors.Is(err, race.ErrUnknownBuoy):
		writeError(w, http.StatusNotFound, "Buoy not found", err.Error())
	case errors.Is(err, route.ErrUnresolvedPosition),
		errors.Is(err, route.ErrSameTarget),
		errors.Is(err, route.ErrBudget):
		writeError(w, http.StatusBadRequest, title, err.Error())
	case errors.Is(err, route.ErrNoWind):
		writeError(w, http.StatusServiceUnavailable, title, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, title, err.Error())
	}
}

// buoyIndex resolves a buoy name, writing a 404 when it is unknown.
func buoyIndex(w http.ResponseWriter, r *race.Race, role string, name string) (int, bool) {
	i, ok := r.BuoyIndex(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Buoy not found", fmt.Sprintf("%s buoy '%s' not found", role, name))
	}
	return i, ok
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	for _, ip := range strings.Split(ips, ",") {
		ip = strings.TrimSpace(ip)
		if netIP := net.ParseIP(ip); netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if netIP := net.ParseIP(ip); netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
