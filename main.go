package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/peterbourgon/ff"
	"github.com/peterbourgon/ff/ffyaml"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/ride-server/api"
	"github.com/a-bouts/ride-server/track"
	"github.com/a-bouts/ride-server/xmpp"
)

func main() {

	fs := flag.NewFlagSet("ride-server", flag.ExitOnError)
	var (
		listen        = fs.String("listen", ":8888", "listen address")
		tracksDir     = fs.String("tracks-dir", "tracks", "directory of the gpx track files")
		mergeInterval = fs.Uint64("merge-interval", 15, "seconds between two scans of the tracks directory, at least 1")
		fetchTimeout  = fs.Duration("fetch-timeout", 30*time.Second, "timeout when downloading a remote track")
		logLevel      = fs.String("log-level", "INFO", "TRACE, DEBUG, INFO, WARN or ERROR")
		logFile       = fs.String("log-file", "", "also write logs to this rotated file")
		logMaxAge     = fs.Int("log-max-age", 30, "days to keep rotated log files")
		cpuprofile    = fs.Bool("cpuprofile", false, "profile track uploads")
		xmppHost      = fs.String("xmpp-host", "", "")
		xmppJid       = fs.String("xmpp-jid", "", "")
		xmppPassword  = fs.String("xmpp-password", "", "")
		xmppTo        = fs.String("xmpp-to", "", "")
		_             = fs.String("config", "", "yaml config file")
	)
	err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarNoPrefix(),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser))
	if err != nil {
		log.WithError(err).Fatal("Error parsing configuration")
	}

	initLogger(*logLevel, *logFile, *logMaxAge)

	if *mergeInterval < 1 {
		log.Fatalf("Invalid merge-interval %d, at least 1 second", *mergeInterval)
	}

	log.Infof("Load tracks from '%s'", *tracksDir)
	store, err := track.NewStore(*tracksDir)
	if err != nil {
		log.WithError(err).Fatal("Error loading tracks")
	}
	scheduler, err := store.Schedule(*mergeInterval)
	if err != nil {
		log.WithError(err).Fatal("Error scheduling tracks merge")
	}
	defer scheduler.Clear()

	var notifier api.Notifier
	x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}
	if x.Config.Enabled() {
		notifier = x
	} else {
		log.Info("No xmpp account, new routes will not be notified")
	}

	router := api.InitServer(*cpuprofile, store, notifier, *fetchTimeout)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept"}))

	accessLog := log.StandardLogger().WriterLevel(log.DebugLevel)
	defer accessLog.Close()

	srv := &http.Server{
		Addr:         *listen,
		Handler:      handlers.CombinedLoggingHandler(accessLog, handlers.CompressHandler(cors(router))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Start server on '%s'", *listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Error serving")
		}
	}()

	<-ctx.Done()
	log.Info("Stop server")

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		log.WithError(err).Error("Error stopping server")
	}
}
