package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tainthound/jsflow/internal/cache"
	"github.com/tainthound/jsflow/output"
	"github.com/tainthound/jsflow/taintmodel"
)

var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".mjs": true, ".cjs": true,
}

var excludedDirs = map[string]bool{
	"node_modules": true, "dist": true, "build": true, ".git": true,
}

// FileError records a per-file failure so the caller can log it at debug
// level without aborting the rest of the project scan, per the "on any
// per-file error, log at debug level and continue" policy.
type FileError struct {
	File string
	Err  error
}

// ProjectOptions configures a project-wide scan.
type ProjectOptions struct {
	Options
	NumWorkers int // defaults to 5, mirroring the teacher's graph.Initialize worker count
}

// AnalyzeProject discovers files under root, analyzes each with its own
// ASTCache-backed worker (tree-sitter parsers are never shared across
// goroutines), and aggregates the results. Cancellation via ctx stops
// dispatch between files; an in-progress file always completes or is
// dropped whole, never partially merged.
func AnalyzeProject(ctx context.Context, root string, opts ProjectOptions) (taintmodel.ProjectAnalysisResult, []FileError) {
	logger := opts.Logger

	files, discoverErr := discoverFiles(root)
	if discoverErr != nil {
		return taintmodel.ProjectAnalysisResult{}, []FileError{{File: root, Err: discoverErr}}
	}

	if logger != nil {
		_ = logger.StartProgress("Analyzing project", len(files))
		defer func() { _ = logger.FinishProgress() }()
	}

	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 5
	}

	// Per-file phase timing writes into the Logger's shared timings map,
	// which isn't safe for concurrent workers to share; each worker gets
	// the project's file opts with the logger stripped, and the project
	// itself drives progress from the single-goroutine result loop below.
	fileOpts := opts.Options
	fileOpts.Logger = nil

	fileChan := make(chan string, len(files))
	type fileResult struct {
		file   string
		result taintmodel.AnalysisResult
		err    error
	}
	resultChan := make(chan fileResult, len(files))

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		astCache := cache.New(cache.DefaultCapacity)
		for {
			select {
			case <-ctx.Done():
				return
			case file, ok := <-fileChan:
				if !ok {
					return
				}
				src, err := os.ReadFile(file)
				if err != nil {
					resultChan <- fileResult{file: file, err: err}
					continue
				}
				res := AnalyzeFile(src, file, fileOpts, astCache)
				resultChan <- fileResult{file: file, result: res}
			}
		}
	}

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker()
	}
	for _, f := range files {
		fileChan <- f
	}
	close(fileChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var fileErrors []FileError
	allIssues := make([]taintmodel.Issue, 0)
	analyzed := 0
	annotated, inferred, totalVars := 0, 0, 0

	for r := range resultChan {
		if logger != nil {
			logger.SetProgressDescription(r.file)
			_ = logger.UpdateProgress(1)
		}
		if r.err != nil {
			fileErrors = append(fileErrors, FileError{File: r.file, Err: r.err})
			if logger != nil {
				logger.PhaseDebug(output.PhaseParse, "%s: %v", r.file, r.err)
			}
			continue
		}
		analyzed++
		allIssues = append(allIssues, r.result.Issues...)
		inferred += r.result.Statistics.AnnotationsInferred
		annotated += r.result.Statistics.AnnotationsExisting
		totalVars += r.result.Statistics.VariablesTotal
	}

	if logger != nil {
		logger.PhaseDebug(output.PhaseDataFlowTrace, "project scan: %d/%d files analyzed, %d issue(s)", analyzed, len(files), len(allIssues))
	}

	issuesByType := make(map[taintmodel.IssueType]int)
	for _, i := range allIssues {
		issuesByType[i.Type]++
	}

	return taintmodel.ProjectAnalysisResult{
		TotalFiles:     len(files),
		AnalyzedFiles:  analyzed,
		TotalIssues:    len(allIssues),
		IssuesByType:   issuesByType,
		CriticalFiles:  criticalFiles(allIssues),
		Coverage:       taintmodel.Coverage{Annotated: annotated, Inferred: inferred, Total: totalVars},
		DetectedTaints: summarize(issuesByType, len(allIssues)),
		Issues:         allIssues,
	}, fileErrors
}

func discoverFiles(root string) ([]string, error) {
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if excludedDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func criticalFiles(issues []taintmodel.Issue) []string {
	seen := make(map[string]bool)
	var out []string
	for _, i := range issues {
		if i.Severity != taintmodel.SeverityError {
			continue
		}
		if seen[i.Location.File] {
			continue
		}
		seen[i.Location.File] = true
		out = append(out, i.Location.File)
	}
	return out
}

var baseSeverity = map[taintmodel.IssueType]int{
	taintmodel.IssueSQLInjection:     4,
	taintmodel.IssueCommandInjection: 4,
	taintmodel.IssuePathTraversal:    4,
	taintmodel.IssueCodeInjection:    4,
	taintmodel.IssueXSS:              3,
	taintmodel.IssueDataIntegrityFailure: 3,
	taintmodel.IssueUnvalidatedInput: 2,
	taintmodel.IssueSSRF:             2,
}

// summarize buckets each observed issue type's base severity, scaled by a
// frequency multiplier (how much of the total finding volume that type
// represents), into a TaintSummary-equivalent DetectedTaint row.
func summarize(issuesByType map[taintmodel.IssueType]int, total int) []taintmodel.DetectedTaint {
	var out []taintmodel.DetectedTaint
	for t, count := range issuesByType {
		base, ok := baseSeverity[t]
		if !ok {
			base = 1
		}
		multiplier := 1.0
		if total > 0 {
			frac := float64(count) / float64(total)
			switch {
			case frac > 0.5:
				multiplier = 1.5
			case frac > 0.2:
				multiplier = 1.2
			}
		}
		score := float64(base) * multiplier
		out = append(out, taintmodel.DetectedTaint{
			Type:        t,
			Count:       count,
			Severity:    bucketScore(score),
			Description: describeIssueType(t),
		})
	}
	return out
}

func bucketScore(score float64) taintmodel.RiskLevel {
	switch {
	case score >= 8:
		return taintmodel.RiskCritical
	case score >= 6:
		return taintmodel.RiskHigh
	case score >= 4:
		return taintmodel.RiskMedium
	default:
		return taintmodel.RiskLow
	}
}

func describeIssueType(t taintmodel.IssueType) string {
	switch t {
	case taintmodel.IssueSQLInjection:
		return "untrusted input reaches a SQL query without parameterization"
	case taintmodel.IssueCommandInjection:
		return "untrusted input reaches a shell command"
	case taintmodel.IssuePathTraversal:
		return "untrusted input reaches a filesystem path"
	case taintmodel.IssueCodeInjection:
		return "untrusted input reaches eval or a Function constructor"
	case taintmodel.IssueXSS:
		return "untrusted input reaches a response or DOM write"
	default:
		return string(t)
	}
}
