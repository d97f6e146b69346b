package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/a-bouts/ride-server/api/model"
	"github.com/a-bouts/ride-server/latlon"
	"github.com/a-bouts/ride-server/metrics"
	"github.com/a-bouts/ride-server/polyline"
	"github.com/a-bouts/ride-server/route"
	"github.com/a-bouts/ride-server/track"
)

// Notifier tells an operator that something happened
type Notifier interface {
	Send(message string) error
}

type server struct {
	cpuprofile   bool
	store        *track.Store
	notifier     Notifier
	client       *http.Client
	fetchTimeout time.Duration
}

func InitServer(cpuprofile bool, store *track.Store, notifier Notifier, fetchTimeout time.Duration) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := server{
		cpuprofile:   cpuprofile,
		store:        store,
		notifier:     notifier,
		client:       &http.Client{},
		fetchTimeout: fetchTimeout,
	}

	router.HandleFunc("/ride/-/healthz", s.healthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/ride/api/v1").Subrouter()
	apiV1.HandleFunc("/geometry/decode", s.decode).Methods(http.MethodPost)
	apiV1.HandleFunc("/geometry/encode", s.encode).Methods(http.MethodPost)
	apiV1.HandleFunc("/geometry/bounds", s.bounds).Methods(http.MethodPost)
	apiV1.HandleFunc("/tracks", s.tracks).Methods(http.MethodGet)
	apiV1.HandleFunc("/tracks", s.upload).Methods(http.MethodPost)
	apiV1.HandleFunc("/tracks/fetch", s.fetch).Methods(http.MethodPost)
	apiV1.HandleFunc("/tracks/{name}", s.track).Methods(http.MethodGet)
	apiV1.HandleFunc("/tracks/{name}/geojson", s.geojson).Methods(http.MethodGet)

	return router
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

func (s *server) decode(w http.ResponseWriter, req *http.Request) {
	requestLogger := logger(req, "decode")

	var d model.Decode
	if err := json.NewDecoder(req.Body).Decode(&d); err != nil {
		badRequest(w, req, err)
		return
	}
	if d.Precision == 0 {
		d.Precision = polyline.DefaultPrecision
	}
	if !polyline.ValidPrecision(d.Precision) {
		badRequest(w, req, fmt.Errorf("precision %d not in 1..%d", d.Precision, polyline.MaxPrecision))
		return
	}

	g, err := route.FromPolyline(d.Polyline, d.Precision)
	if err != nil {
		requestLogger.WithError(err).Warnf("Skip polyline of %d characters", len(d.Polyline))
		fail(w, req, err)
		return
	}
	g = g.Simplify(d.Simplify)

	metrics.PathsDecoded.WithLabelValues("polyline").Inc()
	metrics.Waypoints.Observe(float64(len(g.Waypoints)))
	requestLogger.Debugf("Decoded %d waypoints (%.0f m)", len(g.Waypoints), g.Distance)

	write(w, req, http.StatusOK, g)
}

func (s *server) encode(w http.ResponseWriter, req *http.Request) {
	requestLogger := logger(req, "encode")

	var e model.Encode
	if err := json.NewDecoder(req.Body).Decode(&e); err != nil {
		badRequest(w, req, err)
		return
	}
	if e.Precision == 0 {
		e.Precision = polyline.DefaultPrecision
	}

	g, err := route.New(e.Waypoints)
	if err != nil {
		requestLogger.WithError(err).Warnf("Skip route '%s'", e.Name)
		fail(w, req, err)
		return
	}
	encoded, err := g.Polyline(e.Precision)
	if err != nil {
		fail(w, req, err)
		return
	}

	requestLogger.Infof("Route '%s' recorded: %d waypoints, %.1f km", e.Name, len(g.Waypoints), g.Distance/1000.0)
	if s.notifier != nil {
		message := fmt.Sprintf("New route '%s' (%.1f km)", e.Name, g.Distance/1000.0)
		go func() {
			if err := s.notifier.Send(message); err != nil {
				requestLogger.WithError(err).Warn("Error notifying new route")
			}
		}()
	}

	write(w, req, http.StatusOK, model.Encoded{
		Polyline: encoded,
		Distance: g.Distance,
		Bounds:   g.Bounds,
	})
}

func (s *server) bounds(w http.ResponseWriter, req *http.Request) {
	var wp model.Waypoints
	if err := json.NewDecoder(req.Body).Decode(&wp); err != nil {
		badRequest(w, req, err)
		return
	}

	if wp.Pad < 0 {
		badRequest(w, req, fmt.Errorf("negative pad %v", wp.Pad))
		return
	}

	if err := latlon.Validate(wp.Waypoints); err != nil {
		fail(w, req, err)
		return
	}
	b, err := latlon.NewBounds(wp.Waypoints)
	if err != nil {
		fail(w, req, err)
		return
	}

	write(w, req, http.StatusOK, b.Pad(wp.Pad))
}

func (s *server) tracks(w http.ResponseWriter, req *http.Request) {
	write(w, req, http.StatusOK, s.store.Names())
}

func (s *server) upload(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start().Stop()
	}

	requestLogger := logger(req, "upload")

	start := time.Now()

	id, points, err := s.store.Save(http.MaxBytesReader(w, req.Body, track.MaxSize))
	if err != nil {
		requestLogger.WithError(err).Warn("Rejected track upload")
		fail(w, req, err)
		return
	}

	g, err := route.New(points)
	if err != nil {
		fail(w, req, err)
		return
	}

	metrics.PathsDecoded.WithLabelValues("upload").Inc()
	metrics.Waypoints.Observe(float64(len(g.Waypoints)))
	requestLogger.Infof("Track '%s' stored in %s", id, time.Since(start).String())

	write(w, req, http.StatusCreated, model.Track{Id: id, Geometry: g})
}

func (s *server) fetch(w http.ResponseWriter, req *http.Request) {
	requestLogger := logger(req, "fetch")

	var f model.Fetch
	if err := json.NewDecoder(req.Body).Decode(&f); err != nil {
		badRequest(w, req, err)
		return
	}
	if !strings.HasPrefix(f.URL, "http://") && !strings.HasPrefix(f.URL, "https://") {
		badRequest(w, req, fmt.Errorf("unsupported url '%s'", f.URL))
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), s.fetchTimeout)
	defer cancel()

	// whatever is wrong with the remote file is the upstream's fault
	tracks, err := track.Fetch(ctx, s.client, f.URL)
	if err != nil {
		requestLogger.WithError(err).Warnf("Error fetching track '%s'", f.URL)
		kind, _ := kindOf(err)
		if kind != "" {
			metrics.GeometryErrors.WithLabelValues(kind).Inc()
		}
		write(w, req, http.StatusBadGateway, model.Error{Kind: kind, Error: err.Error()})
		return
	}

	g, err := route.FromTracks(tracks)
	if err != nil {
		fail(w, req, err)
		return
	}
	g = g.Simplify(f.Simplify)

	metrics.PathsDecoded.WithLabelValues("fetch").Inc()
	metrics.Waypoints.Observe(float64(len(g.Waypoints)))

	write(w, req, http.StatusOK, g)
}

func (s *server) geometry(w http.ResponseWriter, req *http.Request) (route.Geometry, bool) {
	name := mux.Vars(req)["name"]

	points, found := s.store.Get(name)
	if !found {
		write(w, req, http.StatusNotFound, model.Error{Error: fmt.Sprintf("unknown track '%s'", name)})
		return route.Geometry{}, false
	}

	g, err := route.New(points)
	if err != nil {
		fail(w, req, err)
		return route.Geometry{}, false
	}

	tolerance, err := queryFloat(req, "simplify")
	if err != nil {
		badRequest(w, req, err)
		return route.Geometry{}, false
	}
	pad, err := queryFloat(req, "pad")
	if err != nil {
		badRequest(w, req, err)
		return route.Geometry{}, false
	}

	return g.Simplify(tolerance).Pad(pad), true
}

// queryFloat is 0 when the parameter is missing
func queryFloat(req *http.Request, key string) (float64, error) {
	v := req.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s'", key, v)
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s '%s'", key, v)
	}
	return f, nil
}

func (s *server) track(w http.ResponseWriter, req *http.Request) {
	g, ok := s.geometry(w, req)
	if !ok {
		return
	}
	write(w, req, http.StatusOK, g)
}

func (s *server) geojson(w http.ResponseWriter, req *http.Request) {
	g, ok := s.geometry(w, req)
	if !ok {
		return
	}

	data, err := json.Marshal(g.FeatureCollection(map[string]interface{}{
		"name": mux.Vars(req)["name"],
	}))
	if err != nil {
		log.WithError(err).Error("Error encoding geojson response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

func kindOf(err error) (string, int) {
	switch {
	case errors.Is(err, polyline.ErrInvalidEncoding):
		return "invalid-encoding", http.StatusUnprocessableEntity
	case errors.Is(err, track.ErrNoTrackData):
		return "empty-track", http.StatusUnprocessableEntity
	case errors.Is(err, latlon.ErrUndefinedRegion):
		return "undefined-region", http.StatusUnprocessableEntity
	case errors.Is(err, latlon.ErrInvalidCoordinate):
		return "invalid-coordinate", http.StatusUnprocessableEntity
	case errors.Is(err, polyline.ErrInvalidPrecision):
		return "invalid-precision", http.StatusBadRequest
	case errors.Is(err, track.ErrMalformed):
		return "malformed-track", http.StatusBadRequest
	case errors.Is(err, track.ErrTooLarge):
		return "too-large", http.StatusRequestEntityTooLarge
	}
	return "", http.StatusInternalServerError
}

func fail(w http.ResponseWriter, req *http.Request, err error) {
	kind, status := kindOf(err)
	if kind == "" {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			kind, status = "too-large", http.StatusRequestEntityTooLarge
		} else {
			log.WithError(err).Error("Unexpected error")
		}
	}
	if kind != "" {
		metrics.GeometryErrors.WithLabelValues(kind).Inc()
	}

	write(w, req, status, model.Error{Kind: kind, Error: err.Error()})
}

func badRequest(w http.ResponseWriter, req *http.Request, err error) {
	write(w, req, http.StatusBadRequest, model.Error{Error: err.Error()})
}

// write encodes v before sending anything so that an encoding error is
// still reported with a 500
func write(w http.ResponseWriter, req *http.Request, status int, v interface{}) {
	var buf bytes.Buffer
	contentType := "application/json"

	if strings.Contains(req.Header.Get("Accept"), "application/msgpack") {
		contentType = "application/msgpack"
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(v); err != nil {
			log.WithError(err).Error("Error encoding msgpack response")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	} else if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithError(err).Error("Error encoding json response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func logger(req *http.Request, action string) *log.Entry {
	fields := log.Fields{
		"action": action,
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func getIp(r *http.Request) (string, error) {
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	ips := r.Header.Get("X-FORWARDED-FOR")
	for _, ip := range strings.Split(ips, ",") {
		ip = strings.TrimSpace(ip)
		if netIP := net.ParseIP(ip); netIP != nil {
			return ip, nil
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if netIP := net.ParseIP(ip); netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
