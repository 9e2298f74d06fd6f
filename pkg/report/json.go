// Package report accumulates the outcome of import runs and renders it as JSON.
package report

import (
	"encoding/json"
	"io"
	"sort"
	"sync"
)

// Data represents the structure of the JSON report output.
type Data struct {
	// FilesModified lists the unique paths of documents that received an edit.
	FilesModified []string `json:"files_modified"`
	// ImportsAdded is the count of edits that created or extended a statement.
	ImportsAdded int `json:"imports_added"`
	// Unchanged is the count of imports that were already present.
	Unchanged int `json:"unchanged"`
	// Skipped is the count of import-like lines that could not be parsed.
	Skipped int `json:"skipped"`
	// Specifiers lists the resolved module specifiers, in first-seen order.
	Specifiers []string `json:"specifiers,omitempty"`
}

// Reporter collects statistics of one or more imports and generates structured output.
// It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	data    Data
	fileSet map[string]struct{}
	specSet map[string]struct{}
}

// New creates a new instance of Reporter with initialized maps.
func New() *Reporter {
	return &Reporter{
		fileSet: make(map[string]struct{}),
		specSet: make(map[string]struct{}),
		data: Data{
			FilesModified: []string{},
		},
	}
}

// AddFile records a file path as modified, ignoring duplicates.
//
// path: The file path to record.
func (r *Reporter) AddFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fileSet[path]; !exists {
		r.fileSet[path] = struct{}{}
		r.data.FilesModified = append(r.data.FilesModified, path)
	}
}

// AddSpecifier records a resolved module specifier, ignoring duplicates.
//
// spec: The module specifier.
func (r *Reporter) AddSpecifier(spec string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specSet[spec]; !exists {
		r.specSet[spec] = struct{}{}
		r.data.Specifiers = append(r.data.Specifiers, spec)
	}
}

// IncAdded increments the counter of applied import edits.
func (r *Reporter) IncAdded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.ImportsAdded++
}

// IncUnchanged increments the counter of imports that needed no edit.
func (r *Reporter) IncUnchanged() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Unchanged++
}

// AddSkipped adds n unparsed import lines to the report.
//
// n: The number of skipped spans.
func (r *Reporter) AddSkipped(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Skipped += n
}

// WriteJSON serializes the collected statistics to w in indented JSON format.
// The file list is sorted so the output is deterministic.
//
// w: The writer to output the JSON to.
func (r *Reporter) WriteJSON(w io.Writer) error {
	data := r.GetData()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// GetData returns a copy of the collected data with a sorted file list.
func (r *Reporter) GetData() Data {
	r.mu.Lock()
	defer r.mu.Unlock()

	files := make([]string, len(r.data.FilesModified))
	copy(files, r.data.FilesModified)
	sort.Strings(files)

	var specs []string
	if len(r.data.Specifiers) > 0 {
		specs = append(specs, r.data.Specifiers...)
	}

	return Data{
		FilesModified: files,
		ImportsAdded:  r.data.ImportsAdded,
		Unchanged:     r.data.Unchanged,
		Skipped:       r.data.Skipped,
		Specifiers:    specs,
	}
}
