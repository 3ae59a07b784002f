package asg

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cobol85/cobolasg/internal/cobparse"
	"github.com/cobol85/cobolasg/internal/cobpos"
	"github.com/cobol85/cobolasg/internal/copybook"
)

// BuildFile runs the full pipeline over one source file:
// preprocess (internal/copybook), parse (internal/cobparse), build
// (internal/asg). It returns both the Program and the preprocessor's
// Result, the latter carrying the preprocessed text as a retrievable
// intermediate artifact plus the EXEC-block/expansion-depth metadata
// internal/diagsink reports on.
func BuildFile(fsys fs.FS, name string, cfg copybook.Config) (*Program, copybook.Result, error) {
	pp := copybook.New(fsys, cfg)
	result, err := pp.PreprocessFile(name)
	if err != nil {
		return nil, copybook.Result{}, err
	}
	root, err := cobparse.Parse(cobpos.FileRef(name), result.Text)
	if err != nil {
		return nil, result, err
	}
	program, err := Build(root, result.ExecBlocks)
	if err != nil {
		return nil, result, err
	}
	return program, result, nil
}

// FileResult is one file's outcome within a BuildTree batch run.
type FileResult struct {
	Path string
	Program *Program
	Pre copybook.Result
	Err error
}

// BuildTree discovers and builds every compilation unit under a directory
// tree: walk fsys, select files by cfg.Extensions, build one Program per
// file. A fatal preprocessor/parser failure on one file must not abort the
// batch, so failures are recorded per-file in the returned slice rather
// than returned as a single error.
func BuildTree(fsys fs.FS, cfg copybook.Config) ([]FileResult, error) {
	var results []FileResult
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !hasAllowedExtension(path, cfg.Extensions) {
			return nil
		}
		program, pre, buildErr := BuildFile(fsys, path, cfg)
		results = append(results, FileResult{Path: path, Program: program, Pre: pre, Err: buildErr})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source tree: %w", err)
	}
	return results, nil
}

func hasAllowedExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// AllDiagnostics flattens every FileResult's diagnostics (structural
// build errors plus each Program's recorded Semantic diagnostics) for a
// batch driver to report or feed to internal/diagsink.
func AllDiagnostics(results []FileResult) []error {
	var all []error
	for _, r := range results {
		if r.Err != nil {
			all = append(all, fmt.Errorf("%s: %w", r.Path, r.Err))
			continue
		}
		all = slices.Concat(all, r.Program.Diagnostics)
	}
	return all
}
