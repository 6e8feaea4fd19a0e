package resolver

import (
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/henrye1/credit-paper/pkg/resolver/store"
)

// Result describes a completed resolution run.
type Result struct {
	// OutputPath is the values-only workbook written for this run.
	OutputPath string
	// Stats carries the resolved/unresolved diagnostics.
	Stats Stats
}

// Resolve reads the workbook at inputPath, resolves its formula cells to
// values and writes a values-only copy. Only I/O failures are returned as
// errors; formula cells that cannot be resolved are left blank and counted
// in the result's stats.
func Resolve(inputPath string, opts Options) (*Result, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, &ResolveError{Path: inputPath, Stage: "open", Err: ErrFileNotFound}
	}

	f, err := excelize.OpenFile(inputPath)
	if err != nil {
		return nil, &ResolveError{Path: inputPath, Stage: "open", Err: err}
	}
	defer f.Close()

	wb := snapshot(f, filepath.Base(inputPath))
	st := store.New()
	outstanding := seed(wb, st)
	stats := runPasses(outstanding, st, opts.passBudget(), opts.Verbose)
	log.Printf("resolved %d of %d formula cells in %d passes (%d unresolved)",
		stats.Resolved, stats.FormulaCells, stats.Passes, stats.Unresolved)

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(os.TempDir(), "resolved-"+uuid.NewString()+".xlsx")
	}
	if err := writeWorkbook(wb, st, outputPath); err != nil {
		return nil, &ResolveError{Path: outputPath, Stage: "write", Err: err}
	}

	return &Result{OutputPath: outputPath, Stats: stats}, nil
}

// ResolveToValues resolves inputPath with default options and returns the
// path of the values-only workbook. The file is caller-owned: delete it once
// the downstream conversion stage is done with it.
func ResolveToValues(inputPath string) (string, error) {
	res, err := Resolve(inputPath, DefaultOptions())
	if err != nil {
		return "", err
	}
	return res.OutputPath, nil
}
