package repl

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history"

// history line prefixes distinguish which input mode produced an entry.
const (
	prefixEval = "eval:"
	prefixCtrl = "ctrl:"
)

// HistoryEntry is a single submitted input line and the mode it was
// submitted in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History persists submitted input lines across sessions. Entries append
// to the backing file as they are written; duplicates move to the end.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a History backed by the file at path. The file is
// not touched until Load or Write.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the in-memory entries with the contents of the history
// file. A missing file loads as empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Lines without a mode prefix load as evaluate-mode entries.
		entry := HistoryEntry{Line: line, Mode: modeEval}

		if s, ok := strings.CutPrefix(line, prefixEval); ok {
			entry.Line = s
		} else if s, ok := strings.CutPrefix(line, prefixCtrl); ok {
			entry.Line = s
			entry.Mode = modeCtrl
		}

		h.entries = append(h.entries, entry)
	}

	return scanner.Err()
}

// Write appends an entry submitted in the given mode. An entry equal to
// the most recent one is dropped; an earlier duplicate is moved to the
// end instead of repeated.
func (h *History) Write(line string, mode inputMode) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 {
		last := h.entries[n-1]
		if last.Line == line && last.Mode == mode {
			return len(line), nil
		}
	}

	moved := false

	for i := range h.entries {
		if h.entries[i].Line == line && h.entries[i].Mode == mode {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			moved = true

			break
		}
	}

	h.entries = append(h.entries, HistoryEntry{Line: line, Mode: mode})

	if moved {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.WriteString(modePrefix(mode) + line + "\n")
}

// GetEntry retrieves an entry by index; index 0 is the oldest.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]HistoryEntry, len(h.entries))
	copy(result, h.entries)

	return result
}

func modePrefix(mode inputMode) string {
	if mode == modeCtrl {
		return prefixCtrl
	}

	return prefixEval
}

// rewriteFile replaces the backing file with the current entries.
// Callers hold h.mu.
func (h *History) rewriteFile() (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	total := 0

	for _, entry := range h.entries {
		n, err := file.WriteString(modePrefix(entry.Mode) + entry.Line + "\n")
		if err != nil {
			return total, err
		}

		total += n
	}

	return total, nil
}
