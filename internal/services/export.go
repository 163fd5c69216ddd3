package services

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	summarySheet    = "Board"
	candidatesSheet = "Candidates"
)

var candidateHeaders = []string{"Name", "Phone", "Email", "File", "Stage", "Score", "Notes", "Scored At"}

// ExportBoard writes the board as an .xlsx workbook: a per-stage summary and the
// candidate list in board order.
func ExportBoard(jobTitle string, columns []models.BoardColumn, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, jobTitle, columns, headerStyle); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	if err := writeCandidatesSheet(f, columns, headerStyle); err != nil {
		return fmt.Errorf("failed to write candidates sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func writeSummarySheet(f *excelize.File, jobTitle string, columns []models.BoardColumn, headerStyle int) error {
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "B", 16)

	f.SetCellValue(summarySheet, "A1", "Job Title")
	f.SetCellValue(summarySheet, "B1", jobTitle)
	f.SetCellValue(summarySheet, "A2", "Exported")
	f.SetCellValue(summarySheet, "B2", time.Now().Format("2006-01-02 15:04:05"))

	f.SetCellValue(summarySheet, "A4", "Stage")
	f.SetCellValue(summarySheet, "B4", "Candidates")
	if err := f.SetCellStyle(summarySheet, "A4", "B4", headerStyle); err != nil {
		return err
	}

	total := 0
	row := 5
	for _, column := range columns {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), string(column.Stage))
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), column.Count)
		total += column.Count
		row++
	}

	f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), total)
	return nil
}

func writeCandidatesSheet(f *excelize.File, columns []models.BoardColumn, headerStyle int) error {
	for i, header := range candidateHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(candidatesSheet, cell, header)
	}
	if err := f.SetCellStyle(candidatesSheet, "A1", "H1", headerStyle); err != nil {
		return err
	}

	f.SetColWidth(candidatesSheet, "A", "C", 28)
	f.SetColWidth(candidatesSheet, "D", "E", 24)
	f.SetColWidth(candidatesSheet, "G", "G", 50)

	row := 2
	for _, column := range columns {
		for _, record := range column.Records {
			values := []interface{}{
				record.Candidate.Name,
				record.Candidate.Phone,
				record.Candidate.Email,
				record.Filename,
				string(record.Status),
				"",
				record.Notes,
				record.CreatedAt.Format("2006-01-02 15:04"),
			}
			if score, ok := record.Score(); ok {
				values[5] = score
			}

			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(candidatesSheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	return nil
}

// ExportFilename names the workbook for a job title.
func ExportFilename(jobTitle string) string {
	return fmt.Sprintf("%s-board-%s.xlsx", slugify(jobTitle), time.Now().Format("20060102"))
}
