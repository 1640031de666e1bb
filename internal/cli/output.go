package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/molpack/pkg/pipeline"
)

// writeResult writes res into dir as <job>.json and returns the path.
func writeResult(dir string, res *pipeline.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := res.Job
	if name == "" {
		name = res.Hash[:12]
	}
	data, err := json.MarshalIndent(res.Pack, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}
