// Package phasecache persists each phase's findings so an interrupted or
// partial scan can be resumed and merged later.
package phasecache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/jsonfile"
)

// Cache stores one <phase>.json file per phase in a state directory.
type Cache struct {
	dir string
	log logrus.FieldLogger
}

// New creates a cache rooted at dir.
func New(dir string, log logrus.FieldLogger) *Cache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Cache{dir: dir, log: log}
}

// Dir returns the state directory.
func (c *Cache) Dir() string { return c.dir }

// Path returns the cache file of phase.
func (c *Cache) Path(phase string) string {
	return filepath.Join(c.dir, phase+".json")
}

// Load returns the cached result of phase. ok is false when there is no
// cache file or it cannot be decoded; a corrupt file is logged and treated
// as absent.
func (c *Cache) Load(phase string) (finding.PhaseResult, bool) {
	var res finding.PhaseResult
	if err := jsonfile.Read(c.Path(phase), &res); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.log.WithError(err).WithField("phase", phase).Warn("ignoring unreadable phase cache")
		}
		return finding.PhaseResult{}, false
	}
	if res.Findings == nil {
		res.Findings = []finding.Finding{}
	}
	return res, true
}

// Save writes the findings of phase, replacing any previous result.
func (c *Cache) Save(phase string, findings []finding.Finding, now time.Time) (finding.PhaseResult, error) {
	if findings == nil {
		findings = []finding.Finding{}
	}
	res := finding.PhaseResult{
		Phase:     phase,
		Generated: now,
		Count:     len(findings),
		Findings:  findings,
	}
	return res, jsonfile.Write(c.Path(phase), res)
}

// Clear removes the cache file of phase, if any.
func (c *Cache) Clear(phase string) error {
	err := os.Remove(c.Path(phase))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
