// Package archive loads the contest archive CSV and the rule-document PDFs
// into an immutable in-memory snapshot.
//
// Loading runs once at process start (or on an explicit administrative
// reload). The CSV is the primary source and its absence is fatal; any
// individual rule document may be missing or unreadable, in which case it is
// carried with empty text so the rest of the knowledge base still builds.
package archive

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/shagarchive/shagqa/internal/log"
)

// ErrDatasetUnreadable indicates the primary archive CSV cannot be read.
// This is fatal at startup; the service cannot answer without the archive.
var ErrDatasetUnreadable = errors.New("dataset unreadable")

// Loader owns the loaded archive snapshot. Reload swaps the snapshot
// atomically; readers always observe a fully loaded state.
type Loader struct {
	csvPath string
	dataDir string
	specs   []DocumentSpec
	logger  log.Logger

	mu       sync.RWMutex
	records  []ContestRecord
	docs     []Document
	loadedAt time.Time
}

// NewLoader creates a loader for the archive CSV at csvPath and the rule
// documents listed in specs, resolved relative to dataDir.
func NewLoader(csvPath, dataDir string, specs []DocumentSpec, logger log.Logger) *Loader {
	return &Loader{
		csvPath: csvPath,
		dataDir: dataDir,
		specs:   specs,
		logger:  logger,
	}
}

// Load reads the CSV and extracts every catalogued document, then swaps the
// snapshot. Returns ErrDatasetUnreadable (wrapped) if the CSV cannot be
// parsed; document failures are logged and tolerated.
func (l *Loader) Load() error {
	records, err := LoadCSV(l.csvPath)
	if err != nil {
		return err
	}

	docs := make([]Document, 0, len(l.specs))
	for _, spec := range l.specs {
		docs = append(docs, l.loadDocument(spec))
	}

	l.mu.Lock()
	l.records = records
	l.docs = docs
	l.loadedAt = time.Now()
	l.mu.Unlock()

	l.logger.Info("archive loaded",
		"records", len(records),
		"documents", len(docs),
		"csv", l.csvPath,
	)
	return nil
}

// Records returns the loaded contest records. The returned slice must be
// treated as read-only.
func (l *Loader) Records() []ContestRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records
}

// Documents returns the loaded rule documents in catalog order.
func (l *Loader) Documents() []Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.docs
}

// Loaded reports whether a snapshot has been loaded, and when.
func (l *Loader) Loaded() (bool, time.Time) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records) > 0, l.loadedAt
}

// Sample returns the first n records for grounding context. The sample is
// static per snapshot, not query-dependent.
func (l *Loader) Sample(n int) []ContestRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n > len(l.records) {
		n = len(l.records)
	}
	return l.records[:n]
}

// loadDocument extracts one catalogued document. Failure yields a Document
// with empty text plus a logged warning, never an error: partial knowledge
// is strictly better than none here.
func (l *Loader) loadDocument(spec DocumentSpec) Document {
	path := filepath.Join(l.dataDir, spec.Filename)
	doc := Document{Key: spec.Key, Title: spec.Title}

	if _, err := os.Stat(path); err != nil {
		l.logger.Warn("rule document not found", "key", spec.Key, "path", path)
		return doc
	}

	text, err := ExtractPDFText(path)
	if err != nil {
		l.logger.Warn("rule document extraction failed", "key", spec.Key, "error", err)
		return doc
	}

	doc.Text = text
	l.logger.Info("rule document extracted", "key", spec.Key, "chars", len(text))
	return doc
}

// ExtractPDFText extracts plain text from a PDF file.
func ExtractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	if _, err := buf.ReadFrom(b); err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// Expected CSV header names, matched case-insensitively. Columns may appear
// in any order; unknown columns are ignored.
const (
	colArchiveID  = "archive id"
	colContest    = "contest"
	colOrg        = "organization"
	colYear       = "year"
	colHostClub   = "host club"
	colPlacement  = "placement"
	colDivision   = "division"
	colFemaleName = "female name"
	colMaleName   = "male name"
	colCoupleName = "couple name"
	colRecordID   = "record id"
)

// LoadCSV parses the contest archive. The first row is the header. Rows with
// unparsable numeric fields keep the zero value rather than failing; a short
// row is skipped with the remaining rows still loaded.
func LoadCSV(path string) ([]ContestRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnreadable, err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV parses archive rows from r. Split out from LoadCSV for testing.
func ParseCSV(r io.Reader) ([]ContestRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may omit trailing judge columns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrDatasetUnreadable, err)
	}

	idx := make(map[string]int, len(header))
	judgeIdx := make([]int, 0, 5)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if strings.HasPrefix(key, "judge") {
			judgeIdx = append(judgeIdx, i)
			continue
		}
		idx[key] = i
	}

	var records []ContestRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row: %v", ErrDatasetUnreadable, err)
		}

		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := ContestRecord{
			ArchiveID:    field(colArchiveID),
			Contest:      field(colContest),
			Organization: field(colOrg),
			Year:         parseInt(field(colYear)),
			HostClub:     field(colHostClub),
			Placement:    parseInt(field(colPlacement)),
			Division:     field(colDivision),
			FemaleName:   field(colFemaleName),
			MaleName:     field(colMaleName),
			CoupleName:   field(colCoupleName),
			RecordID:     field(colRecordID),
		}

		for _, i := range judgeIdx {
			if i < len(row) {
				if j := strings.TrimSpace(row[i]); j != "" {
					rec.Judges = append(rec.Judges, j)
				}
			}
		}

		// Derive the couple name when the archive omits it.
		if rec.CoupleName == "" && rec.FemaleName != "" && rec.MaleName != "" {
			rec.CoupleName = rec.FemaleName + " & " + rec.MaleName
		}

		records = append(records, rec)
	}

	return records, nil
}

// parseInt treats unparsable numeric fields as missing rather than fatal.
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
