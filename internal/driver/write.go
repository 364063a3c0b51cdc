package driver

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"ojc/internal/diag"
	"ojc/internal/source"
	"ojc/internal/trace"
)

// WriteOutputs writes the code of every compiled unit to its destination
// path, with a ".map" file next to it when source maps are on. Units with
// errors are skipped. Failures are reported as issues; the count of files
// written is returned.
func (s *Session) WriteOutputs(ctx context.Context) int {
	_, span := trace.Start(ctx, trace.ScopePass, "write")
	end := s.phase(PhaseWrite)

	written := 0
	for _, u := range s.units {
		res := u.Result
		if res == nil || res.ErrorCount() > 0 || res.Aborted {
			continue
		}
		file := eventFile(u)
		if err := writeFile(res.DestPath, []byte(res.Code)); err != nil {
			s.report(diag.SevError, diag.IOWriteFileError, source.Span{File: u.File}, "cannot write %s: %v", res.DestPath, err)
			s.emit(Event{File: file, Stage: StageWrite, Status: StatusError, Err: err, Errors: 1})
			continue
		}
		if len(res.SourceMap) > 0 {
			if err := writeFile(res.DestPath+".map", res.SourceMap); err != nil {
				s.report(diag.SevError, diag.IOWriteFileError, source.Span{File: u.File}, "cannot write %s.map: %v", res.DestPath, err)
				s.emit(Event{File: file, Stage: StageWrite, Status: StatusError, Err: err, Errors: 1})
				continue
			}
		}
		s.emit(Event{File: file, Stage: StageWrite, Status: StatusDone})
		written++
	}
	note := strconv.Itoa(written) + " files"
	end(note)
	span.End(note)
	return written
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
