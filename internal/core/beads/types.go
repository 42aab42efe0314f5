// Package beads reads issue records exported by the beads tracker
// (.beads/issues.jsonl) and converts them into tasks.
package beads

import (
	"encoding/json"
	"path/filepath"
)

const (
	// DirName is the directory where beads stores its data.
	DirName = ".beads"
	// IssuesFileName is the JSONL file containing issue records.
	IssuesFileName = "issues.jsonl"
)

// IssuesPath returns the default issues.jsonl location for a repo path.
func IssuesPath(repoPath string) string {
	return filepath.Join(repoPath, DirName, IssuesFileName)
}

// DependencyBlocks is the beads dependency type that blocks work.
const DependencyBlocks = "blocks"

// Dependency describes an issue dependency edge.
type Dependency struct {
	IssueID     string `json:"issue_id"`
	DependsOnID string `json:"depends_on_id"`
	Type        string `json:"type"`
	CreatedBy   string `json:"created_by"`
}

// Issue represents a single beads issue record. Timestamps and priority are
// kept raw so conversion can report bad values per field.
type Issue struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	Priority     json.RawMessage `json:"priority,omitempty"`
	IssueType    string          `json:"issue_type"`
	Owner        string          `json:"owner,omitempty"`
	Assignee     string          `json:"assignee,omitempty"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    string          `json:"created_at,omitempty"`
	UpdatedAt    string          `json:"updated_at,omitempty"`
	ClosedAt     string          `json:"closed_at,omitempty"`
	CloseReason  string          `json:"close_reason,omitempty"`
	Labels       []string        `json:"labels,omitempty"`
	Dependencies []Dependency    `json:"dependencies,omitempty"`
}
