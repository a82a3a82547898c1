// =============================================================================
// Sales Analytics - File Manager Utility
// =============================================================================
//
// This module provides the file boundaries of an analysis run:
//   - Reading the transaction input file
//   - Directory management for outputs
//   - Writing the text report
//   - Invalid-record log generation
//
// An unreadable input file is the only fatal condition of a run. It is
// reported as ErrInputUnreadable so callers can tell it apart from other
// failures with errors.Is.
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrInputUnreadable is returned when the input file is missing or cannot be read.
var ErrInputUnreadable = errors.New("input file unreadable")

// =============================================================================
// INPUT
// =============================================================================

// ReadInputFile reads the whole transaction file.
//
// PARAMETERS:
//   - path: The path to the input file.
//
// RETURNS:
//   - The raw file contents.
//   - An error wrapping ErrInputUnreadable if the file cannot be read.
func ReadInputFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputUnreadable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputUnreadable, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputUnreadable, path, err)
	}
	return data, nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates a directory and its parents if they don't exist.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	return EnsureDir(filepath.Dir(path))
}

// =============================================================================
// REPORT OUTPUT
// =============================================================================

// WriteReport writes the rendered report, replacing any previous file.
//
// PARAMETERS:
//   - path: The destination path. Missing parent directories are created.
//   - content: The rendered report text.
//
// RETURNS:
//   - An error if the directory cannot be created or the file cannot be written.
func WriteReport(path, content string) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(content); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	return nil
}

// =============================================================================
// INVALID RECORD LOG
// =============================================================================

// InvalidLogEntry represents one rejected input line.
type InvalidLogEntry struct {
	LineNumber int
	Reason     string
	Message    string
	Raw        string
}

// InvalidLogFileName returns the log file name for a run started at the given time.
func InvalidLogFileName(at time.Time) string {
	return fmt.Sprintf("invalid_records_%s.txt", at.Format("20060102_150405"))
}

// WriteInvalidLog writes rejected records to a log file.
//
// PARAMETERS:
//   - entries: The rejected records, in input order.
//   - outputDir: The directory to write the log file.
//   - runID: The run identifier printed in the header.
//   - at: The run start time, used for the file name and header.
//
// RETURNS:
//   - The path to the log file, empty when there is nothing to log.
//   - An error if writing fails.
func WriteInvalidLog(entries []InvalidLogEntry, outputDir, runID string, at time.Time) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	logPath := filepath.Join(outputDir, InvalidLogFileName(at))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create invalid record log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	header := fmt.Sprintf("Sales Analytics - Invalid Record Log\n"+
		"Run ID: %s\n"+
		"Generated: %s\n"+
		"Total Invalid Records: %d\n"+
		"================================================================================\n\n",
		runID,
		at.Format("2006-01-02 15:04:05"),
		len(entries))
	writer.WriteString(header)

	for i, entry := range entries {
		entryStr := fmt.Sprintf("Record #%d\n"+
			"  Line Number:    %d\n"+
			"  Reason:         %s\n",
			i+1,
			entry.LineNumber,
			entry.Reason)

		if entry.Message != "" {
			entryStr += fmt.Sprintf("  Message:        %s\n", entry.Message)
		}
		entryStr += fmt.Sprintf("  Raw:            %s\n\n", entry.Raw)
		writer.WriteString(entryStr)
	}

	footer := "================================================================================\n" +
		"End of Invalid Record Log\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush invalid record log: %w", err)
	}

	return logPath, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
