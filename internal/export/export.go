// Package export writes the conversation history to standalone files the
// student can keep or share: plain text, one entry per line, or a
// spreadsheet with one row per entry.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/studymentor/internal/types"
)

// ErrEmptyHistory is returned when there is nothing to export.
var ErrEmptyHistory = errors.New("no history to export")

type Format string

const (
	Text  Format = "txt"
	Excel Format = "xlsx"
)

const (
	filePrefix = "study_history_"
	fileStamp  = "20060102_150405"
	sheetName  = "History"
)

// ParseFormat accepts "txt"/"text" and "xlsx"/"excel".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return Text, nil
	case "xlsx", "excel":
		return Excel, nil
	}
	return "", fmt.Errorf("unknown export format %q (want txt or xlsx)", s)
}

// FileName is the export name for a given moment.
func FileName(now time.Time, f Format) string {
	return filePrefix + now.Format(fileStamp) + "." + string(f)
}

// Export writes entries into dir and returns the created path.
func Export(entries []string, dir string, f Format, now time.Time) (string, error) {
	if len(entries) == 0 {
		return "", ErrEmptyHistory
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(now, f))

	var err error
	switch f {
	case Text:
		err = writeText(path, entries)
	case Excel:
		err = writeExcel(path, entries)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeText(path string, entries []string) error {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeExcel(path string, entries []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]any{"Timestamp", "Kind", "Text"}); err != nil {
		return err
	}
	for i, e := range entries {
		row := []any{"", "", e}
		if parsed, ok := types.ParseEntry(e); ok {
			row = []any{parsed.Timestamp, string(parsed.Kind), parsed.Text}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetName, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "C", "C", 100); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// List returns earlier exports in dir, oldest first.
func List(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), filePrefix+"*.{txt,xlsx}")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	for i, m := range matches {
		matches[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return matches, nil
}
