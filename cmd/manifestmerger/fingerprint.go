package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fingerprint records the modification time of every input path at the
// moment a merge ran, the dependency-fingerprint file described in §4.1
// and §6: a driver compares a freshly computed fingerprint against the
// one on disk to decide whether an incremental rebuild can skip the
// merge entirely.
type fingerprint struct {
	Inputs map[string]time.Time `yaml:"inputs"`
}

// statFunc abstracts os.Stat's modification-time lookup so tests can
// supply fake timestamps instead of depending on real filesystem timing.
type statFunc func(path string) (time.Time, error)

func osStat(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func computeFingerprint(paths []string, stat statFunc) (fingerprint, error) {
	fp := fingerprint{Inputs: make(map[string]time.Time, len(paths))}
	for _, p := range paths {
		modTime, err := stat(p)
		if err != nil {
			return fingerprint{}, fmt.Errorf("stat %s: %w", p, err)
		}
		fp.Inputs[p] = modTime
	}
	return fp, nil
}

// unchanged reports whether fp's recorded paths and modification times
// are identical to other's, meaning a merge driven by these same inputs
// can be skipped.
func (fp fingerprint) unchanged(other fingerprint) bool {
	if len(fp.Inputs) != len(other.Inputs) {
		return false
	}
	for path, modTime := range fp.Inputs {
		otherModTime, ok := other.Inputs[path]
		if !ok || !modTime.Equal(otherModTime) {
			return false
		}
	}
	return true
}

func loadFingerprint(path string) (fingerprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fingerprint{}, nil
		}
		return fingerprint{}, fmt.Errorf("read fingerprint %s: %w", path, err)
	}
	var fp fingerprint
	if err := yaml.Unmarshal(data, &fp); err != nil {
		return fingerprint{}, fmt.Errorf("parse fingerprint %s: %w", path, err)
	}
	return fp, nil
}

func (fp fingerprint) save(path string) error {
	data, err := yaml.Marshal(fp)
	if err != nil {
		return fmt.Errorf("encode fingerprint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fingerprint %s: %w", path, err)
	}
	return nil
}
