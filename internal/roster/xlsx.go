package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// ErrBadWorkbook wraps failures to read the uploaded file itself.
var ErrBadWorkbook = errors.New("unreadable workbook")

// RowError describes a spreadsheet row that was not imported.
type RowError struct {
	Row    int    `json:"row"` // 1-based, as shown in spreadsheet software
	Reason string `json:"reason"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  []RowError `json:"skipped,omitempty"`
}

// ImportXLSX reads students from the first sheet of a workbook. Row 1 is a
// header; columns are RegNo, Name, Class, Age, Gender, Email, Phone.
// Invalid or duplicate rows are skipped and reported; any other store error
// stops the import and is returned with the rows imported so far.
func ImportXLSX(ctx context.Context, r io.Reader, store Store) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: open excel file: %v", ErrBadWorkbook, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("close excel file", "error", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return ImportResult{}, fmt.Errorf("%w: no sheets", ErrBadWorkbook)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: read rows from sheet %s: %v", ErrBadWorkbook, sheet, err)
	}

	var res ImportResult
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if blankRow(row) {
			continue
		}
		st, err := NewStudent(inputFromRow(row))
		if err == nil {
			err = store.Add(ctx, st)
		}
		switch {
		case err == nil:
			res.Imported++
		case skippable(err):
			res.Skipped = append(res.Skipped, RowError{Row: i + 1, Reason: err.Error()})
		default:
			return res, fmt.Errorf("import row %d: %w", i+1, err)
		}
	}
	slog.Info("roster import finished", "sheet", sheet, "imported", res.Imported, "skipped", len(res.Skipped))
	return res, nil
}

func skippable(err error) bool {
	return errors.Is(err, ErrInvalidStudent) || errors.Is(err, ErrInvalidGrade) || errors.Is(err, ErrDuplicateStudent)
}

func inputFromRow(row []string) StudentInput {
	col := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return StudentInput{
		RegNo:  col(0),
		Name:   col(1),
		Grade:  col(2),
		Age:    col(3),
		Gender: col(4),
		Email:  col(5),
		Phone:  col(6),
	}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
