// =============================================================================
// Order Summarizer - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for batch processing,
// including:
//   - Directory management
//   - Input file discovery
//   - Input archival after a successful run
//   - Output file naming
//   - The per-run processing summary log
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to input_archive after successful processing
//   - Failed files remain in the input directory so they can be retried
//   - Name clashes in the archive never overwrite an earlier file
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for batch processing.
type FileManager struct {
	// InputDir is the directory where order exports are dropped.
	InputDir string

	// OutputDir is the directory where summaries are written.
	OutputDir string

	// InputArchiveDir is the directory for processed input files.
	InputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: input_archive/2024/01/15/orders.xlsx
	UseTimestampSubdirs bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		InputArchiveDir: inputArchiveDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files directly inside the input directory
// whose extension is one of extensions (case-insensitive).
//
// PARAMETERS:
//   - extensions: Accepted extensions with their dot, e.g. ".xlsx".
//
// RETURNS:
//   - The matching paths, sorted by name. Hidden files and spreadsheet
//     lock files ("~$orders.xlsx") are skipped.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles(extensions []string) ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	accepted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		accepted[strings.ToLower(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if accepted[strings.ToLower(filepath.Ext(name))] {
			files = append(files, filepath.Join(fm.InputDir, name))
		}
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//
// RETURNS:
//   - The path to the archived file.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archiveDir := fm.InputArchiveDir
	if fm.UseTimestampSubdirs {
		now := time.Now()
		archiveDir = filepath.Join(archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath, err := reservePath(filepath.Join(archiveDir, filepath.Base(filePath)))
	if err != nil {
		return "", fmt.Errorf("failed to reserve archive path: %w", err)
	}

	// Move the file.
	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			_ = os.Remove(archivePath)
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// OUTPUT FILES
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name, without extension.
//     Placeholders are listed under PLACEHOLDERS.
//   - ext: The extension to append, e.g. ".xlsx".
//   - params: Values for custom placeholders, keyed without braces.
//
// RETURNS:
//   - The generated file name. Path separators in values are replaced so
//     the name stays inside the output directory.
//
// PLACEHOLDERS:
//
//	{uuid}      - A random UUID
//	{timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//	{date}      - Current date (YYYYMMDD)
//	{time}      - Current time (HHMMSS)
//	{original}  - Input file name without extension
//
// EXAMPLE:
//
//	format: "{original}_summary_{date}"
//	params: {"original": "orders"}
//	output: "orders_summary_20240115.xlsx"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	result = strings.NewReplacer("/", "_", "\\", "_").Replace(result)
	if result == "" {
		result = uuid.New().String()
	}

	if !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// CreateOutputFile creates a new file at path. When path already exists a
// numeric suffix is added ("orders_summary_2.txt") instead of overwriting.
// The returned file must be closed by the caller.
func CreateOutputFile(path string) (*os.File, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	candidate := path
	for n := 2; ; n++ {
		file, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
}

// reservePath creates an empty placeholder at a free variant of path and
// returns it.
func reservePath(path string) (string, error) {
	file, err := CreateOutputFile(path)
	if err != nil {
		return "", err
	}
	name := file.Name()
	return name, file.Close()
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFiles []string
	ArchivePath string
	Rows        int
	Items       int
	GrandTotal  string
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary to a log file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	summaryFileName := fmt.Sprintf("processing_summary_%s.txt", time.Now().Format("20060102_150405"))

	file, err := CreateOutputFile(filepath.Join(outputDir, summaryFileName))
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	if err := writeSummary(file, summary); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}

	return file.Name(), nil
}

func writeSummary(w io.Writer, summary ProcessingSummary) error {
	const rule = "================================================================================\n"
	const thin = "--------------------------------------------------------------------------------\n"

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Order Summarizer - Processing Summary\n%s\n", rule)
	fmt.Fprintf(bw, "Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String())
	fmt.Fprintf(bw, "Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Total Rows:     %d\n\n",
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows)

	if len(summary.ProcessedFiles) > 0 {
		fmt.Fprintf(bw, "Successful Files:\n%s", thin)
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(bw, "  Input:        %s\n", pf.InputFile)
			for _, out := range pf.OutputFiles {
				fmt.Fprintf(bw, "  Output:       %s\n", out)
			}
			if pf.ArchivePath != "" {
				fmt.Fprintf(bw, "  Archived To:  %s\n", pf.ArchivePath)
			}
			fmt.Fprintf(bw, "  Rows:         %d\n", pf.Rows)
			fmt.Fprintf(bw, "  SKUs:         %d\n", pf.Items)
			fmt.Fprintf(bw, "  Grand Total:  %s\n", pf.GrandTotal)
			fmt.Fprintf(bw, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		fmt.Fprintf(bw, "Failed Files:\n%s", thin)
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(bw, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(bw, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	fmt.Fprintf(bw, "%sEnd of Summary\n", rule)

	return bw.Flush()
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
