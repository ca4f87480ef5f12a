package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"sigs.k8s.io/yaml"
)

// Report output formats. The values match the config vocabulary.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

const (
	compatFileBase  = "addon-compatibility"
	summaryFileName = "assessment-summary.json"
)

// Artifact is one file written to the output tree. Data is retained so the
// caller can publish the file without reading it back.
type Artifact struct {
	Cluster string
	Name    string
	Path    string
	Data    []byte
}

// Writer renders cluster results into the run output directory.
type Writer struct {
	dir     string
	formats []string
	logger  *zap.Logger
}

// NewWriter creates a writer rooted at dir, producing the given formats for
// each cluster. A nil logger is replaced with a no-op logger.
func NewWriter(dir string, formats []string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, formats: formats, logger: logger}
}

// Dir returns the output directory the writer is rooted at.
func (w *Writer) Dir() string { return w.dir }

// WriteAll writes the per-cluster reports and the combined run summary.
// Clusters whose collection failed get no per-cluster files; they still
// appear in the summary with their error. Returns every written artifact.
func (w *Writer) WriteAll(results []ClusterResult, summary *RunSummary) ([]Artifact, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}

	var artifacts []Artifact

	for i := range results {
		res := &results[i]
		if res.Compat == nil {
			w.logger.Warn("no report files for cluster without assessment data",
				zap.String("cluster", res.ClusterName),
				zap.String("error", res.Error))
			continue
		}

		clusterDir := filepath.Join(w.dir, res.ClusterName)
		if err := os.MkdirAll(clusterDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report directory %s: %w", clusterDir, err)
		}

		for _, format := range w.formats {
			data, name, err := renderResult(res, format)
			if err != nil {
				return nil, fmt.Errorf("failed to render %s report for %s: %w", format, res.ClusterName, err)
			}

			path := filepath.Join(clusterDir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return nil, fmt.Errorf("failed to write report %s: %w", path, err)
			}

			w.logger.Debug("wrote report", zap.String("path", path))
			artifacts = append(artifacts, Artifact{Cluster: res.ClusterName, Name: name, Path: path, Data: data})
		}
	}

	if summary != nil {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal run summary: %w", err)
		}
		data = append(data, '\n')

		path := filepath.Join(w.dir, summaryFileName)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write run summary %s: %w", path, err)
		}
		artifacts = append(artifacts, Artifact{Name: summaryFileName, Path: path, Data: data})
	}

	return artifacts, nil
}

// renderResult produces the report file content and name for one format.
// YAML goes through sigs.k8s.io/yaml so field names follow the JSON tags.
func renderResult(res *ClusterResult, format string) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(res.Compat, "", "  ")
		if err != nil {
			return nil, "", err
		}
		return append(data, '\n'), compatFileBase + ".json", nil
	case FormatYAML:
		data, err := yaml.Marshal(res.Compat)
		if err != nil {
			return nil, "", err
		}
		return data, compatFileBase + ".yaml", nil
	case FormatMarkdown:
		return []byte(renderMarkdown(res)), compatFileBase + ".md", nil
	default:
		return nil, "", fmt.Errorf("unsupported report format %q", format)
	}
}
