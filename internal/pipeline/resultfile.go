// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/pkg/types"
)

// ResultFile is the on-disk representation of a completed run. The
// researcher can save a review to a file and reload it later without
// re-running the pipeline.
type ResultFile struct {
	Query     types.ResearchQuery   `yaml:"query"`
	Result    types.SynthesisResult `yaml:"result"`
	Timestamp time.Time             `yaml:"timestamp"`
}

// WriteResultFile saves a query and its synthesis result to a YAML file.
func WriteResultFile(path string, query types.ResearchQuery, result types.SynthesisResult) error {
	rf := ResultFile{
		Query:     query,
		Result:    result,
		Timestamp: time.Now(),
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
