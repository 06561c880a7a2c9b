package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleLog = `{"level":"info","msg":"report loaded","session_id":"a","time":"2026-03-01T10:00:00Z"}
{"kind":"idle","level":"info","msg":"status message","session_id":"a","status":"Idle","time":"2026-03-01T10:00:01Z"}
{"level":"info","msg":"run requested","session_id":"a","time":"2026-03-01T10:00:02Z"}
{"kind":"progress","level":"info","msg":"status message","session_id":"a","status":"Passo 1/3","time":"2026-03-01T10:00:03Z"}
{"kind":"failure","level":"warning","msg":"status message","session_id":"a","status":"Erro: falha","time":"2026-03-01T10:00:04Z"}
not json
{"column":"id","level":"info","msg":"column resized","session_id":"a","time":"2026-03-01T10:00:05Z"}
{"kind":"other","level":"info","msg":"status message","session_id":"b","status":"Passo 2","time":"2026-03-02T09:00:00Z"}
{"kind":"closed","level":"info","msg":"status message","session_id":"b","status":"","time":"2026-03-02T09:00:01Z"}
`

func TestSummarize(t *testing.T) {
	report, err := summarize(strings.NewReader(sampleLog), "")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if report.Lines != 9 || report.Skipped != 1 {
		t.Fatalf("lines=%d skipped=%d", report.Lines, report.Skipped)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(report.Sessions))
	}

	a := report.Sessions[0]
	if a.SessionID != "a" || a.Runs != 1 || a.Resizes != 1 || a.Messages != 3 {
		t.Fatalf("unexpected session a: %+v", a)
	}
	if diff := cmp.Diff(map[string]int{"idle": 1, "progress": 1, "failure": 1}, a.Kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if a.LastStatus != "Erro: falha" || len(a.Anomalies) != 0 {
		t.Fatalf("unexpected session a: %+v", a)
	}

	b := report.Sessions[1]
	want := []string{`status "Passo 2" logged as other, classifies as progress`}
	if diff := cmp.Diff(want, b.Anomalies); diff != "" {
		t.Fatalf("anomalies mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeSingleSession(t *testing.T) {
	report, err := summarize(strings.NewReader(sampleLog), "b")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(report.Sessions) != 1 || report.Sessions[0].SessionID != "b" {
		t.Fatalf("unexpected sessions: %+v", report.Sessions)
	}
}
