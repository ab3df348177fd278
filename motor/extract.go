package motor

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/harhar"
	"github.com/tidwall/gjson"
)

const (
	keyLog     = "log"
	keyEntries = "entries"
	keyCreator = "creator.name"
)

// Extractor turns a HAR document into the ordered RequestRecords that
// exercise the backend.
type Extractor struct {
	rules  RuleSet
	logger *slog.Logger
}

// archiveEntry is the subset of a HAR entry the extractor needs. Request is a
// pointer so a missing request object can be told apart from an empty one.
type archiveEntry struct {
	Time    float64         `json:"time"`
	Timings harhar.Timings  `json:"timings"`
	Request *harhar.Request `json:"request"`
}

// NewExtractor creates an extractor that drops entries matching rules.
func NewExtractor(rules RuleSet) *Extractor {
	return &Extractor{rules: rules, logger: slog.Default()}
}

// WithLogger sets the logger used for per-entry debug output.
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Extract reads the whole document from r and returns the surviving entries
// in archive order.
func (e *Extractor) Extract(r io.Reader) (*Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read har archive: %w", err)
	}
	return e.ExtractBytes(data)
}

// ExtractBytes is Extract over an in-memory document.
func (e *Extractor) ExtractBytes(data []byte) (*Archive, error) {
	if !gjson.ValidBytes(data) {
		return nil, documentError("document is not well-formed JSON", nil)
	}

	root := gjson.ParseBytes(data)
	log := root.Get(keyLog)
	if !log.IsObject() {
		return nil, documentError("missing top-level \"log\" object", nil)
	}
	entries := log.Get(keyEntries)
	if !entries.IsArray() {
		return nil, documentError("missing \"log.entries\" list", nil)
	}

	archive := &Archive{
		Records: make([]*RequestRecord, 0),
		Size:    int64(len(data)),
		Hash:    fmt.Sprintf("%x", xxhash.Sum64(data)),
		Creator: log.Get(keyCreator).String(),
	}

	var parseErr error
	entries.ForEach(func(_, value gjson.Result) bool {
		index := archive.Total
		archive.Total++

		record, err := e.extractEntry(index, value)
		if err != nil {
			parseErr = err
			return false
		}
		if record == nil {
			archive.Excluded++
			return true
		}
		archive.Records = append(archive.Records, record)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return archive, nil
}

// extractEntry returns nil, nil for excluded entries.
func (e *Extractor) extractEntry(index int, value gjson.Result) (*RequestRecord, error) {
	if !value.IsObject() {
		return nil, &ParseError{Entry: index, Reason: "entry is not an object"}
	}

	var entry archiveEntry
	if err := json.Unmarshal([]byte(value.Raw), &entry); err != nil {
		return nil, &ParseError{Entry: index, Reason: "failed to decode entry", Err: err}
	}
	if entry.Request == nil {
		return nil, &ParseError{Entry: index, Reason: "missing \"request\" object"}
	}
	if entry.Request.URL == "" {
		return nil, &ParseError{Entry: index, Reason: "request has no url"}
	}
	if _, err := RequestURI(entry.Request.URL); err != nil {
		return nil, &ParseError{Entry: index, Reason: "request url is malformed", Err: err}
	}
	if entry.Request.Method == "" {
		return nil, &ParseError{Entry: index, Reason: "request has no method"}
	}

	if rule, ok := e.rules.Match(entry.Request.URL); ok {
		e.logger.Debug("excluding entry",
			"index", index,
			"url", entry.Request.URL,
			"rule", rule.Name)
		return nil, nil
	}

	return newRequestRecord(entry), nil
}

func newRequestRecord(entry archiveEntry) *RequestRecord {
	req := entry.Request
	return &RequestRecord{
		Method:  req.Method,
		URL:     req.URL,
		Time:    entry.Time,
		Timings: entry.Timings,
		Headers: req.Headers,
		Params:  req.Body.Params,
	}
}
