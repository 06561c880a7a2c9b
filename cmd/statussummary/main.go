package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bekirdag/task-report/internal/status"
)

type logEntry struct {
	Time      time.Time `json:"time"`
	Level     string    `json:"level"`
	Msg       string    `json:"msg"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Error     string    `json:"error"`
}

type sessionSummary struct {
	SessionID   string         `json:"session_id"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	Messages    int            `json:"messages"`
	Kinds       map[string]int `json:"kinds"`
	LastStatus  string         `json:"last_status,omitempty"`
	Runs        int            `json:"runs"`
	RunFailures int            `json:"run_failures"`
	Resizes     int            `json:"resizes"`
	Toggles     int            `json:"toggles"`
	Anomalies   []string       `json:"anomalies,omitempty"`
}

type summaryReport struct {
	Source   string           `json:"source"`
	Lines    int              `json:"lines"`
	Skipped  int              `json:"skipped"`
	Sessions []sessionSummary `json:"sessions"`
}

func main() {
	var inputPath string
	var outputPath string
	var sessionID string
	flag.StringVar(&inputPath, "in", "", "session log file path (required)")
	flag.StringVar(&outputPath, "out", "", "output JSON path (optional, defaults to stdout)")
	flag.StringVar(&sessionID, "session", "", "only summarise this session id")
	flag.Parse()

	if inputPath == "" {
		exit(errors.New("missing --in path"))
	}

	file, err := os.Open(inputPath)
	if err != nil {
		exit(err)
	}
	defer file.Close()

	report, err := summarize(file, sessionID)
	if err != nil {
		exit(fmt.Errorf("parse session log: %w", err))
	}
	report.Source = inputPath

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exit(fmt.Errorf("encode report: %w", err))
	}
	if outputPath == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
		exit(fmt.Errorf("write output: %w", err))
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "statussummary: %v\n", err)
	os.Exit(1)
}

func summarize(r io.Reader, onlySession string) (summaryReport, error) {
	var (
		scanner  = bufio.NewScanner(r)
		report   summaryReport
		sessions = map[string]*sessionSummary{}
	)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		report.Lines++
		var entry logEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			report.Skipped++
			continue
		}
		if onlySession != "" && entry.SessionID != onlySession {
			continue
		}
		summary, ok := sessions[entry.SessionID]
		if !ok {
			summary = &sessionSummary{SessionID: entry.SessionID, Kinds: map[string]int{}}
			sessions[entry.SessionID] = summary
		}
		summary.add(entry)
	}
	if err := scanner.Err(); err != nil {
		return report, err
	}

	for _, summary := range sessions {
		summary.finish()
		report.Sessions = append(report.Sessions, *summary)
	}
	sort.Slice(report.Sessions, func(i, j int) bool {
		return report.Sessions[i].StartTime.Before(report.Sessions[j].StartTime)
	})
	return report, nil
}

func (s *sessionSummary) add(entry logEntry) {
	if !entry.Time.IsZero() {
		if s.StartTime.IsZero() || entry.Time.Before(s.StartTime) {
			s.StartTime = entry.Time
		}
		if entry.Time.After(s.EndTime) {
			s.EndTime = entry.Time
		}
	}

	switch entry.Msg {
	case "status message":
		s.Messages++
		s.Kinds[entry.Kind]++
		if entry.Status != "" {
			s.LastStatus = entry.Status
		}
		if entry.Status != "" && isTextKind(entry.Kind) {
			if want := status.Kind(status.Classify(entry.Status)); want != entry.Kind {
				s.Anomalies = append(s.Anomalies, fmt.Sprintf("status %q logged as %s, classifies as %s", entry.Status, entry.Kind, want))
			}
		}
	case "run requested":
		s.Runs++
	case "run failed":
		s.RunFailures++
	case "column resized":
		s.Resizes++
	case "column toggled":
		s.Toggles++
	}
}

func (s *sessionSummary) finish() {
	if s.Kinds["closed"]+s.Kinds["transport_error"] > 1 {
		s.Anomalies = append(s.Anomalies, "more than one terminal channel message")
	}
	if s.Runs > 0 && s.Kinds["progress"] == 0 && s.RunFailures == 0 {
		s.Anomalies = append(s.Anomalies, "run requested without reported progress")
	}
}

func isTextKind(kind string) bool {
	switch kind {
	case "closed", "transport_error":
		return false
	}
	return true
}
