package beads

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/colonyops/ticketlog/internal/core/task"
)

// Record is the outcome of reading one non-blank line.
type Record struct {
	Line     int
	Task     task.Task
	Warnings []string
	Err      error
}

// Read parses every non-blank line of a beads issues.jsonl stream and
// converts it. A bad line produces a Record with Err set; only failures of
// the underlying reader are returned as an error.
func Read(r io.Reader, now time.Time) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	records := []Record{}
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec := Record{Line: lineNo}

		var issue Issue
		if err := json.Unmarshal([]byte(line), &issue); err != nil {
			rec.Err = fmt.Errorf("invalid json: %w", err)
			records = append(records, rec)
			continue
		}

		rec.Task, rec.Warnings, rec.Err = Convert(issue, now)
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan beads issues: %w", err)
	}

	return records, nil
}
