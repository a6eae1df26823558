package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/myklob/reasonrank/internal/model"
)

// DocumentScorer scores a single belief document from disk.
type DocumentScorer interface {
	ScoreFile(ctx context.Context, path string) (*model.Report, error)
}

// ScoreJob scores one document path.
type ScoreJob struct {
	Path   string
	Scorer DocumentScorer
}

// Execute runs the score job.
func (j *ScoreJob) Execute(ctx context.Context) Result {
	report, err := j.Scorer.ScoreFile(ctx, j.Path)
	return &ScoreResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// ScoreResult is the outcome of scoring one document.
type ScoreResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// Err reports the scoring error, if any.
func (r *ScoreResult) Err() error {
	return r.Error
}

// BatchProcessor scores multiple documents concurrently.
type BatchProcessor struct {
	scorer      DocumentScorer
	concurrency int
}

// NewBatchProcessor creates a batch processor around a document scorer.
func NewBatchProcessor(scorer DocumentScorer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scorer:      scorer,
		concurrency: concurrency,
	}
}

// ProcessPaths scores the given documents concurrently. Results come back
// in completion order, one per path.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*ScoreResult {
	if len(paths) == 0 {
		return []*ScoreResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ScoreJob{Path: path, Scorer: b.scorer})
	}

	results := pool.Wait()

	scoreResults := make([]*ScoreResult, len(results))
	for i, result := range results {
		scoreResults[i] = result.(*ScoreResult)
	}
	return scoreResults
}

// ProcessFile reads document paths from a list file (one per line) and
// scores them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*ScoreResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read document list: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ProcessDir scores every belief document in a directory. Documents are
// recognized by extension: .json, .yaml and .yml.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*ScoreResult, error) {
	paths, err := FindDocuments(dir)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// FindDocuments lists the belief documents in a directory, sorted by name.
func FindDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no belief documents in %s", dir)
	}
	return paths, nil
}

// ReadPathsFromFile reads document paths from a file, one per line. Blank
// lines and # comments are skipped, repeated paths kept once.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
