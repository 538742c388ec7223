package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/followup/followup/internal/domain/contact"
	"github.com/followup/followup/internal/domain/locator"
	"github.com/followup/followup/internal/domain/worklist"
)

// Dataset is a flat table ready to be rendered as CSV or Excel.
type Dataset struct {
	Name   string
	Header []string
	Rows   [][]string
}

var workItemHeader = []string{
	"Study identifier", "Subject identifier", "Previous study", "Reported at",
	"Assigned", "Date assigned", "Called", "Called at", "Visited", "Consented",
	"Phone numbers",
}

// WorkItemDataset flattens work items one row per item. Phone numbers from
// the subject's latest locator are joined into a single cell; a subject
// without a locator gets an empty cell.
func WorkItemDataset(items []*worklist.WorkItem, locators map[string]*locator.LocatorInfo) Dataset {
	rows := make([][]string, 0, len(items))
	for _, w := range items {
		var phones string
		if loc, ok := locators[w.StudyIdentifier]; ok {
			var nums []string
			for _, ch := range locator.AvailableChannels(loc) {
				nums = append(nums, ch.Value)
			}
			phones = strings.Join(nums, ", ")
		}
		rows = append(rows, []string{
			w.StudyIdentifier,
			strVal(w.SubjectIdentifier),
			w.PrevStudy,
			fmtTime(&w.ReportedAt),
			strVal(w.Assigned),
			fmtDate(w.DateAssigned),
			fmtBool(w.IsCalled),
			fmtTime(w.CalledAt),
			fmtBool(w.Visited),
			fmtBool(w.Consented),
			phones,
		})
	}
	return Dataset{Name: "Work items", Header: workItemHeader, Rows: rows}
}

var callLogHeader = []string{
	"Study identifier", "Previous study", "Call time", "Channel", "Outcome",
	"Appointment", "Appointment type", "Appointment date", "Home visit",
	"Final contact", "Recorded by",
}

// CallLogDataset flattens call log entries one row per entry, rendering
// enum fields to their display labels.
func CallLogDataset(entries []*contact.CallLogEntry) Dataset {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.StudyIdentifier,
			e.PrevStudy,
			fmtTime(&e.CallDatetime),
			e.Channel.Label(),
			e.Outcome.Label(),
			string(e.Appt),
			e.ApptType.Label(),
			fmtDate(e.ApptDate),
			string(e.HomeVisit),
			fmtBool(e.FinalContact),
			e.CreatedBy,
		})
	}
	return Dataset{Name: "Call log", Header: callLogHeader, Rows: rows}
}

// WriteCSV renders the dataset as CSV.
func WriteCSV(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Header); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExcel renders the dataset as a single-sheet xlsx workbook.
func WriteExcel(w io.Writer, ds Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, ds.Name); err != nil {
		return err
	}
	sheet = ds.Name

	for col, title := range ds.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for r, row := range ds.Rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fmtBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func fmtTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// Filename builds the download name for a dataset export.
func Filename(base, format string) string {
	return fmt.Sprintf("%s_%s.%s", base, time.Now().Format("20060102"), format)
}
