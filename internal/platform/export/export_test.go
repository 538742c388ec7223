package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/followup/followup/internal/domain/contact"
	"github.com/followup/followup/internal/domain/locator"
	"github.com/followup/followup/internal/domain/worklist"
)

func str(s string) *string { return &s }

func TestWorkItemDataset_JoinsPhoneNumbers(t *testing.T) {
	items := []*worklist.WorkItem{
		{StudyIdentifier: "066-1", PrevStudy: "tshilo-dikotla", ReportedAt: time.Now(), IsCalled: true},
	}
	locators := map[string]*locator.LocatorInfo{
		"066-1": {
			StudyIdentifier: "066-1",
			SubjectCell:     str("71111111"),
			CaretakerCell:   str("72222222"),
		},
	}
	ds := WorkItemDataset(items, locators)
	if len(ds.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(ds.Rows))
	}
	row := ds.Rows[0]
	if got := row[len(row)-1]; got != "71111111, 72222222" {
		t.Errorf("expected joined phone numbers, got %q", got)
	}
	if row[6] != "Yes" {
		t.Errorf("expected called flag rendered as Yes, got %q", row[6])
	}
}

func TestWorkItemDataset_NoLocator(t *testing.T) {
	items := []*worklist.WorkItem{
		{StudyIdentifier: "066-2", ReportedAt: time.Now()},
	}
	ds := WorkItemDataset(items, nil)
	row := ds.Rows[0]
	if got := row[len(row)-1]; got != "" {
		t.Errorf("expected empty phone cell, got %q", got)
	}
}

func TestCallLogDataset_RendersLabels(t *testing.T) {
	entries := []*contact.CallLogEntry{
		{
			StudyIdentifier: "066-1",
			CallDatetime:    time.Now(),
			Channel:         locator.ChannelSubjectCell,
			Outcome:         contact.OutcomeNoResponseVM,
			ApptType:        contact.ApptReCall,
			CreatedBy:       "alice",
		},
	}
	ds := CallLogDataset(entries)
	row := ds.Rows[0]
	if row[3] != "Subject cell" {
		t.Errorf("expected channel label, got %q", row[3])
	}
	if row[4] != "No response, voicemail not left" {
		t.Errorf("expected outcome label, got %q", row[4])
	}
	if row[6] != "Re-call" {
		t.Errorf("expected appt type label, got %q", row[6])
	}
}

func TestWriteCSV(t *testing.T) {
	ds := Dataset{
		Name:   "Test",
		Header: []string{"A", "B"},
		Rows:   [][]string{{"1", "two, with comma"}},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if records[1][1] != "two, with comma" {
		t.Errorf("comma not preserved: %q", records[1][1])
	}
}

func TestWriteExcel(t *testing.T) {
	ds := Dataset{
		Name:   "Work items",
		Header: []string{"A", "B"},
		Rows:   [][]string{{"1", "2"}, {"3", "4"}},
	}
	var buf bytes.Buffer
	if err := WriteExcel(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// xlsx files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("expected xlsx (zip) output")
	}
}

func TestFilename(t *testing.T) {
	name := Filename("work_items", "csv")
	if !strings.HasPrefix(name, "work_items_") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("unexpected filename %q", name)
	}
}
