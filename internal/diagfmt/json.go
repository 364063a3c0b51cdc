package diagfmt

import (
	"encoding/json"
	"io"

	"ojc/internal/diag"
	"ojc/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// IssueJSON представляет одну ошибку или предупреждение в JSON формате
type IssueJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Category string       `json:"category,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// IssuesOutput представляет корневую структуру JSON вывода
type IssuesOutput struct {
	Issues   []IssueJSON `json:"issues"`
	Count    int         `json:"count"`
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
}

// makeLocation создаёт LocationJSON из Span. Issues without a file keep
// the path recorded on the issue.
func makeLocation(span source.Span, fallback string, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	var f *source.File
	if fs != nil {
		f = fs.Get(span.File)
	}
	if f == nil {
		return LocationJSON{File: fallback}
	}

	loc := LocationJSON{
		File:      formatPath(f, fs, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}

	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}

	return loc
}

// BuildIssuesOutput формирует структуру JSON-вывода без сериализации.
// Counts cover every issue, not only the ones kept by Max.
func BuildIssuesOutput(issues []*diag.Issue, fs *source.FileSet, opts JSONOpts) IssuesOutput {
	out := IssuesOutput{Issues: make([]IssueJSON, 0, len(issues))}

	for _, is := range issues {
		switch {
		case is.IsError():
			out.Errors++
		case is.IsWarning():
			out.Warnings++
		}
		if opts.Max > 0 && len(out.Issues) >= opts.Max {
			continue
		}

		item := IssueJSON{
			Severity: is.Severity.String(),
			Code:     is.Code.ID(),
			Message:  is.Message,
			Location: makeLocation(is.Primary, is.Path, fs, opts.PathMode, opts.IncludePositions),
		}
		if c := is.Category(); c != diag.CatNone {
			item.Category = c.String()
		}

		if opts.IncludeNotes && len(is.Notes) > 0 {
			item.Notes = make([]NoteJSON, len(is.Notes))
			for j, note := range is.Notes {
				item.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, is.Path, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}

		out.Issues = append(out.Issues, item)
	}
	out.Count = len(out.Issues)
	return out
}

// JSON форматирует issues в JSON формат.
func JSON(w io.Writer, issues []*diag.Issue, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildIssuesOutput(issues, fs, opts))
}
