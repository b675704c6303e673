package vrecon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vrecon/vrecon/config"
)

// Stage is the report of one stage's run.
type Stage struct {
	// Time, ex: "2018/01/01 20:41:00"
	Time string `json:"time"`

	// Execution is the number of seconds it took to execute the stage
	Execution float64 `json:"execution"`

	// Counts of the records the stage produced
	Counts map[string]int `json:"counts"`

	// Warnings is the number of recoverable problems
	Warnings int `json:"warnings"`
}

// Manifest is the record of the stages run for a combination.
type Manifest struct {
	// RunID identifies the run that last wrote the manifest
	RunID string `json:"runId"`

	// Combo is the "tech.assembler" label
	Combo string `json:"combo"`

	// Time of the last write
	Time string `json:"time"`

	// Execution is the total seconds across stages
	Execution float64 `json:"execution"`

	// Warnings is the total warnings across stages
	Warnings int `json:"warnings"`

	// Stages by name
	Stages map[string]Stage `json:"stages"`
}

// now is the current time formatted like log.Println.
func now() string {
	t := time.Now()
	return fmt.Sprintf(
		"%d/%02d/%02d %02d:%02d:%02d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
	)
}

// newRunID returns a new time-based run id.
func newRunID() (string, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return "", fmt.Errorf("failed to create run id: %v", err)
	}
	return id.String(), nil
}

// ReadManifest reads a manifest.json.
func ReadManifest(path string) (*Manifest, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := &Manifest{}
	if err := json.Unmarshal(contents, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %v", path, err)
	}
	return m, nil
}

// writeManifest records a stage in the manifest of the combination's output
// directory. The stages of the same run are kept together: a new runID
// replaces the manifest, an empty runID adds to whatever is there.
func writeManifest(dir, runID string, combo config.Combo, name string, stage Stage) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)

	m, err := ReadManifest(path)
	if err != nil || (runID != "" && m.RunID != runID) {
		m = &Manifest{RunID: runID}
	}
	if m.RunID == "" {
		if m.RunID, err = newRunID(); err != nil {
			return nil, err
		}
	}
	if m.Stages == nil {
		m.Stages = make(map[string]Stage)
	}

	m.Combo = combo.String()
	m.Time = now()
	m.Stages[name] = stage
	m.Execution, m.Warnings = 0, 0
	for _, s := range m.Stages {
		m.Execution += s.Execution
		m.Warnings += s.Warnings
	}

	output, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize manifest: %v", err)
	}
	if err = os.WriteFile(path, output, 0666); err != nil {
		return nil, fmt.Errorf("failed to write the manifest: %v", err)
	}

	return m, nil
}
