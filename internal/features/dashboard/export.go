package dashboard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// exportRow is one flattened line of loaded chart data. Segment is
// empty for the overall (unsegmented) counts.
type exportRow struct {
	Field    string
	Segment  string
	Category string
	Count    int
}

// ExportSession renders the session's loaded chart data as csv or xlsx.
func (s *DashboardServiceImpl) ExportSession(sessionID, format string) ([]byte, string, error) {
	session, ok := s.Sessions.Get(sessionID)
	if !ok {
		return nil, "", ErrSessionNotFound
	}

	var rows []exportRow
	session.View(func(st *State) {
		for _, f := range st.Fields {
			if !f.IsLoaded {
				continue
			}
			for _, c := range f.Categories {
				rows = append(rows, exportRow{Field: f.Label, Category: c.Label, Count: c.Count})
			}
			for _, series := range f.Series {
				for _, c := range series.Categories {
					rows = append(rows, exportRow{Field: f.Label, Segment: series.Label, Category: c.Label, Count: c.Count})
				}
			}
		}
	})

	stamp := time.Now().Format("20060102_150405")
	switch format {
	case "csv":
		data, err := exportCSV(rows)
		if err != nil {
			return nil, "", err
		}
		return data, fmt.Sprintf("dashboard_%s.csv", stamp), nil
	case "xlsx":
		data, err := exportExcel(rows)
		if err != nil {
			return nil, "", err
		}
		return data, fmt.Sprintf("dashboard_%s.xlsx", stamp), nil
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
}

func exportCSV(rows []exportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"field", "segment", "category", "count"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{row.Field, row.Segment, row.Category, strconv.Itoa(row.Count)}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel(rows []exportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Chart Data"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Field", "Segment", "Category", "Count"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{row.Field, row.Segment, row.Category, row.Count}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
