// =============================================================================
// Order Summarizer - Processor Module
// =============================================================================
//
// This module orchestrates the summarizing of order exports, from loading a
// file to writing its summaries.
//
// PROCESSING PIPELINE (per file):
//   1. Load the rows of the first sheet (CSV or XLSX)
//   2. Summarize them with the configured layout
//   3. Write one output file per configured output format
//   4. Archive the input file
//
// CONCURRENCY:
//   RunAll processes files concurrently, at most max_concurrency at a time.
//   A Processor holds no per-file state and is safe for concurrent use.
//
// =============================================================================

package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/order-summarizer/internal/config"
	"github.com/ginjaninja78/order-summarizer/internal/summary"
	"github.com/ginjaninja78/order-summarizer/internal/writer"
	"github.com/ginjaninja78/order-summarizer/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFiles are the summary files written, one per output format.
	// This is empty if processing failed or in dry-run mode.
	OutputFiles []string

	// ArchivePath is where the input was moved. Empty when not archived.
	ArchivePath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Summary is the summarized content of the file.
	Summary *summary.Result

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// DataRows is the number of rows after the header.
	DataRows int

	// Items is the number of distinct SKUs across both groups.
	Items int

	// GrandTotal is the summed quantity of all identified rows.
	GrandTotal decimal.Decimal

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// PROCESSOR STRUCTURE
// =============================================================================

// Processor summarizes order exports according to the main configuration.
type Processor struct {
	cfg     *config.MainConfig
	layout  summary.Layout
	formats []writer.Format
	files   *utils.FileManager
	logger  *zap.Logger
	dryRun  bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithDryRun summarizes files without writing outputs or archiving inputs.
func WithDryRun(dryRun bool) Option {
	return func(p *Processor) {
		p.dryRun = dryRun
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Processor.
//
// PARAMETERS:
//   - cfg: The validated main configuration.
//   - logger: Destination of progress and error logs. nil disables logging.
//
// RETURNS:
//   - A new Processor.
//   - An error if the layout or an output format in cfg is invalid.
func New(cfg *config.MainConfig, logger *zap.Logger, opts ...Option) (*Processor, error) {
	layout, err := cfg.SummaryLayout()
	if err != nil {
		return nil, fmt.Errorf("failed to build layout: %w", err)
	}

	formats := make([]writer.Format, 0, len(cfg.OutputFormats))
	for _, name := range cfg.OutputFormats {
		format, err := writer.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, format)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Processor{
		cfg:     cfg,
		layout:  layout,
		formats: formats,
		files:   utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir),
		logger:  logger.Named("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Layout returns the layout the processor summarizes with.
func (p *Processor) Layout() summary.Layout {
	return p.layout
}

// =============================================================================
// SUMMARIZING
// =============================================================================

// Summarize loads an export from r and summarizes it. name selects the
// loader by its extension.
func (p *Processor) Summarize(name string, r io.Reader) (*summary.Result, error) {
	rows, err := LoadRows(name, r, p.cfg.CSVSettings)
	if err != nil {
		return nil, err
	}
	return summary.Summarize(rows, p.layout), nil
}

// SummarizeFile loads the export at path and summarizes it.
func (p *Processor) SummarizeFile(path string) (*summary.Result, error) {
	rows, err := LoadFile(path, p.cfg.CSVSettings)
	if err != nil {
		return nil, err
	}

	res := summary.Summarize(rows, p.layout)

	p.logger.Debug("summarized file",
		zap.String("file", path),
		zap.Int("data_rows", res.Stats.DataRows),
		zap.Int("skipped_rows", res.Stats.SkippedRows),
		zap.Int("unclassified_rows", res.Stats.UnclassifiedRows),
		zap.String("grand_total", res.GrandTotal.String()),
	)

	return res, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the processing pipeline for one file.
//
// RETURNS:
//   - A Result describing the outcome. Errors are reported in the Result,
//     never returned, so a batch can collect every outcome.
func (p *Processor) Run(ctx context.Context, path string) Result {
	startTime := time.Now()
	result := Result{FilePath: path}
	log := p.logger.With(zap.String("file", path))

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	log.Info("processing file")

	// =========================================================================
	// STEP 1-2: LOAD AND SUMMARIZE
	// =========================================================================

	res, err := p.SummarizeFile(path)
	if err != nil {
		result.Error = fmt.Errorf("failed to summarize: %w", err)
		log.Error("processing failed", zap.Error(result.Error))
		return result
	}

	result.Summary = res
	result.Stats.DataRows = res.Stats.DataRows
	result.Stats.Items = len(res.GroupA.Items) + len(res.GroupB.Items)
	result.Stats.GrandTotal = res.GrandTotal

	if p.dryRun {
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		log.Info("dry run complete", zap.String("grand_total", res.GrandTotal.String()))
		return result
	}

	// =========================================================================
	// STEP 3: WRITE OUTPUT FILES
	// =========================================================================

	original := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, format := range p.formats {
		outputPath, err := p.writeOutput(res, format, original)
		if err != nil {
			result.Error = fmt.Errorf("failed to write %s output: %w", format, err)
			log.Error("processing failed", zap.Error(result.Error))
			p.removeOutputs(result.OutputFiles)
			result.OutputFiles = nil
			return result
		}
		result.OutputFiles = append(result.OutputFiles, outputPath)
		log.Debug("wrote output", zap.String("output", outputPath))
	}

	// =========================================================================
	// STEP 4: ARCHIVE INPUT
	// =========================================================================

	if p.cfg.ShouldArchive() {
		archivePath, err := p.files.ArchiveInputFile(path)
		if err != nil {
			// Log the error but don't fail the processing.
			log.Warn("failed to archive input", zap.Error(err))
		} else {
			result.ArchivePath = archivePath
		}
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	log.Info("processed file",
		zap.Strings("outputs", result.OutputFiles),
		zap.Int("items", result.Stats.Items),
		zap.String("grand_total", res.GrandTotal.String()),
		zap.Duration("elapsed", result.Stats.ProcessingTime),
	)

	return result
}

// RunAll processes paths concurrently and returns one Result per path, in
// the order of paths. When continue_on_error is off, the first failure
// cancels files that have not started yet; they report the cancellation.
func (p *Processor) RunAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.cfg.MaxConcurrency))

	for i, path := range paths {
		g.Go(func() error {
			results[i] = p.Run(gctx, path)
			if !results[i].Success && !p.cfg.ShouldContinueOnError() {
				return results[i].Error
			}
			return nil
		})
	}

	// Failures are carried in results.
	_ = g.Wait()

	return results
}

// ProcessInputDir discovers the exports in the input directory and runs
// them all.
//
// RETURNS:
//   - One Result per discovered file. No files means no results.
//   - An error if the directories cannot be prepared or scanned.
func (p *Processor) ProcessInputDir(ctx context.Context) ([]Result, error) {
	if err := p.prepare(); err != nil {
		return nil, err
	}

	paths, err := p.files.DiscoverInputFiles(p.cfg.InputExtensions)
	if err != nil {
		return nil, err
	}

	p.logger.Info("discovered input files", zap.String("dir", p.cfg.InputDir), zap.Int("count", len(paths)))
	if len(paths) == 0 {
		return nil, nil
	}

	return p.RunAll(ctx, paths), nil
}

// ProcessFiles runs the given files after preparing the output and archive
// directories.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) ([]Result, error) {
	if err := p.prepare(); err != nil {
		return nil, err
	}
	return p.RunAll(ctx, paths), nil
}

// prepare creates the working directories unless this is a dry run.
func (p *Processor) prepare() error {
	if p.dryRun {
		return nil
	}
	return p.files.EnsureDirectories()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeOutput writes res in one format to the output directory.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the file cannot be created or written.
func (p *Processor) writeOutput(res *summary.Result, format writer.Format, original string) (string, error) {
	fileName := utils.GenerateOutputFileName(p.cfg.OutputNameFormat, format.Extension(), map[string]string{
		"original": original,
	})

	file, err := utils.CreateOutputFile(filepath.Join(p.cfg.OutputDir, fileName))
	if err != nil {
		return "", err
	}

	if err := writer.Write(file, res, format); err != nil {
		file.Close()
		_ = os.Remove(file.Name())
		return "", err
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}

	return file.Name(), nil
}

// removeOutputs deletes the outputs of a file that failed part way, so a
// retry starts from a clean output directory.
func (p *Processor) removeOutputs(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("failed to remove partial output", zap.String("output", path), zap.Error(err))
		}
	}
}

// BatchSummary converts batch results into the processing summary log entry.
func BatchSummary(start, end time.Time, results []Result) utils.ProcessingSummary {
	s := utils.ProcessingSummary{
		StartTime:  start,
		EndTime:    end,
		TotalFiles: len(results),
	}

	for _, r := range results {
		s.TotalRows += r.Stats.DataRows
		if r.Success {
			s.SuccessfulFiles++
			s.ProcessedFiles = append(s.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   r.FilePath,
				OutputFiles: r.OutputFiles,
				ArchivePath: r.ArchivePath,
				Rows:        r.Stats.DataRows,
				Items:       r.Stats.Items,
				GrandTotal:  r.Stats.GrandTotal.String(),
				ProcessTime: r.Stats.ProcessingTime,
			})
			continue
		}

		s.FailedFiles++
		msg := "unknown error"
		if r.Error != nil {
			msg = r.Error.Error()
		}
		s.FailedFilesList = append(s.FailedFilesList, utils.FailedFileInfo{
			InputFile:    r.FilePath,
			ErrorMessage: msg,
		})
	}

	return s
}
