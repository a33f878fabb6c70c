package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/regatta-nav/api"
	"github.com/a-bouts/regatta-nav/land"
	"github.com/a-bouts/regatta-nav/metrics"
	"github.com/a-bouts/regatta-nav/race"
	"github.com/a-bouts/regatta-nav/wind"
	"github.com/a-bouts/regatta-nav/xmpp"
)

func main() {

	fs := flag.NewFlagSet("regatta-nav", flag.ExitOnError)
	var (
		addr         = fs.String("addr", ":8888", "listen address")
		data         = fs.String("data", "data", "race dataset directory")
		_            = fs.String("config", "", "config file (key value per line)")
		debug        = fs.Bool("debug", false, "debug logs")
		cpuprofile   = fs.Bool("cpuprofile", false, "profile route explorations")
		windRefresh  = fs.Uint64("wind-refresh", 0, "seconds between wind reloads, 0 disables")
		workers      = fs.Int("workers", 0, "concurrent branches per exploration, 0 for one per edge")
		cacheSize    = fs.Int("cache-size", 128, "explorations kept in cache, 0 disables")
		landFile     = fs.String("land-file", "", "land mask used to check the buoys")
		xmppHost     = fs.String("xmpp-host", "", "")
		xmppJid      = fs.String("xmpp-jid", "", "")
		xmppPassword = fs.String("xmpp-password", "", "")
		xmppTo       = fs.String("xmpp-to", "", "")
	)
	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarNoPrefix(),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		log.Fatal(err)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	manifest, err := race.LoadManifest(*data)
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("Load race from %s", *data)
	r, err := race.Load(*data, manifest)
	if err != nil {
		log.Fatal(err)
	}

	if *landFile != "" {
		l, err := land.Load(*landFile)
		if err != nil {
			log.Fatal(err)
		}
		for _, name := range r.OnLand(l) {
			log.Warnf("Buoy %s is on land", name)
		}
	}

	switch cmd := fs.Arg(0); cmd {
	case "show":
		show(os.Stdout, r)
	case "", "serve":
		x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}
		serve(*addr, *data, manifest, r, x, serveOptions{
			cpuprofile:  *cpuprofile,
			windRefresh: *windRefresh,
			workers:     *workers,
			cacheSize:   *cacheSize,
		})
	default:
		log.Fatalf("Unknown command %s, expected serve or show", cmd)
	}
}

type serveOptions struct {
	cpuprofile  bool
	windRefresh uint64
	workers     int
	cacheSize   int
}

func serve(addr string, dir string, manifest race.Manifest, r *race.Race, x xmpp.Xmpp, o serveOptions) {
	reg := metrics.NewRegistry()
	reg.RecordWindRefresh(r.Wind.Len(), nil)

	var watcher *wind.Watcher
	opts := api.Options{
		Cpuprofile: o.cpuprofile,
		CacheSize:  o.cacheSize,
		Workers:    o.workers,
		Metrics:    reg,
		Refresh: func() error {
			return watcher.Refresh()
		},
	}
	if x.Enabled() {
		opts.Notifier = x
	}

	s, err := api.InitServer(r, opts)
	if err != nil {
		log.Fatal(err)
	}

	centre, _ := r.Centre()
	watcher, err = wind.NewWatcher(func() (*wind.Schedule, error) {
		return manifest.LoadWind(dir, centre)
	}, s.UpdateWind)
	if err != nil {
		log.Fatal(err)
	}
	watcher.Start(o.windRefresh)
	defer watcher.Stop()

	log.Infof("Start server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, s.Handler()))
}
