package track

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/ride-server/latlon"
	"github.com/a-bouts/ride-server/metrics"
)

const ext = ".gpx"

var ErrInvalidInterval = errors.New("invalid merge interval")

type entry struct {
	file    string
	modTime time.Time
	points  []latlon.LatLon
}

// Store keeps the tracks of the gpx files found in a directory, indexed by
// file name without extension
type Store struct {
	dir    string
	tracks map[string]entry
	lock   sync.RWMutex
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create tracks dir '%s': %w", dir, err)
	}

	s := &Store{
		dir:    dir,
		tracks: make(map[string]entry),
	}
	if err := s.Merge(); err != nil {
		return nil, err
	}
	return s, nil
}

// Schedule merges the directory every 'seconds' seconds, at least 1
func (s *Store) Schedule(seconds uint64) (*gocron.Scheduler, error) {
	if seconds < 1 {
		return nil, fmt.Errorf("%w: %d seconds", ErrInvalidInterval, seconds)
	}

	sc := gocron.NewScheduler()
	job := sc.Every(seconds).Seconds()
	if err := job.Do(s.Merge); err != nil {
		return nil, fmt.Errorf("schedule merge: %w", err)
	}

	go sc.Start()

	return sc, nil
}

func (s *Store) Get(name string) ([]latlon.LatLon, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	e, found := s.tracks[name]
	if !found {
		return nil, false
	}
	return e.points, true
}

func (s *Store) Names() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	names := make([]string, 0, len(s.tracks))
	for k := range s.tracks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Merge drops the tracks whose file is gone or changed and loads the new ones
func (s *Store) Merge() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var toRemove []string
	for k, e := range s.tracks {
		info, err := os.Stat(filepath.Join(s.dir, e.file))
		if os.IsNotExist(err) || (err == nil && !info.ModTime().Equal(e.modTime)) {
			toRemove = append(toRemove, k)
		}
	}
	for _, k := range toRemove {
		log.Debugf("Remove track '%s'", k)
		delete(s.tracks, k)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read tracks dir '%s': %w", s.dir, err)
	}

	var files []os.FileInfo
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.WithError(err).Errorf("Error reading file '%s'", e.Name())
			continue
		}
		files = append(files, info)
	}

	for _, info := range files {
		name := strings.TrimSuffix(info.Name(), ext)
		if _, found := s.tracks[name]; found {
			continue
		}

		points, err := s.load(info.Name())
		if err != nil {
			log.WithError(err).Errorf("Error loading track file '%s'", info.Name())
			continue
		}

		log.Debugf("Init track '%s' (%d points)", name, len(points))
		s.tracks[name] = entry{file: info.Name(), modTime: info.ModTime(), points: points}
	}

	metrics.TracksStored.Set(float64(len(s.tracks)))

	return nil
}

func (s *Store) load(file string) ([]latlon.LatLon, error) {
	f, err := os.Open(filepath.Join(s.dir, file))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Save parses an uploaded gpx file and keeps it under a new id.
// Nothing is written when the file holds no track or an invalid coordinate.
func (s *Store) Save(r io.Reader) (string, []latlon.LatLon, error) {
	data, err := readAll(r)
	if err != nil {
		return "", nil, err
	}

	tracks, err := decode(data)
	if err != nil {
		return "", nil, err
	}
	points, err := ParseTrackPoints(tracks)
	if err != nil {
		return "", nil, err
	}
	if err := latlon.Validate(points); err != nil {
		return "", nil, err
	}

	id := uuid.New().String()
	file := id + ext
	tmp := filepath.Join(s.dir, file+".tmp")

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", nil, fmt.Errorf("write track '%s': %w", id, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, file)); err != nil {
		os.Remove(tmp)
		return "", nil, fmt.Errorf("write track '%s': %w", id, err)
	}

	info, err := os.Stat(filepath.Join(s.dir, file))
	if err != nil {
		return "", nil, fmt.Errorf("stat track '%s': %w", id, err)
	}

	s.lock.Lock()
	s.tracks[id] = entry{file: file, modTime: info.ModTime(), points: points}
	metrics.TracksStored.Set(float64(len(s.tracks)))
	s.lock.Unlock()

	log.Infof("Saved track '%s' (%d points)", id, len(points))

	return id, points, nil
}
