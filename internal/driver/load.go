package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"ojc/internal/ast"
	"ojc/internal/compiler"
	"ojc/internal/diag"
	"ojc/internal/project"
	"ojc/internal/source"
	"ojc/internal/trace"
)

// rawEnvelope is one envelope file read and decoded off the main goroutine.
type rawEnvelope struct {
	path   string
	data   []byte
	hash   project.Digest
	env    *ast.Envelope
	text   []byte // source text when the envelope does not carry it
	srcErr error
	err    error
}

func (s *Session) jobs(n int) int {
	jobs := s.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// readEnvelopes reads, validates and decodes paths in parallel. Results
// are indexed like paths; per-file failures are kept in the result rather
// than failing the group.
func (s *Session) readEnvelopes(ctx context.Context, paths []string, decode bool) ([]rawEnvelope, error) {
	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	out := make([]rawEnvelope, len(paths))
	if len(paths) == 0 {
		return out, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs(len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = readEnvelope(path, decode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func readEnvelope(path string, decode bool) rawEnvelope {
	r := rawEnvelope{path: path}
	// #nosec G304 -- path is provided by the caller
	r.data, r.err = os.ReadFile(path)
	if r.err != nil {
		return r
	}
	r.hash = project.DigestOf(r.data)
	if decode {
		r.decode()
	}
	return r
}

func (r *rawEnvelope) decode() {
	r.env, r.err = ast.DecodeEnvelope(r.data)
	if r.err != nil || r.env.Source != nil {
		return
	}
	if r.env.Path == "" {
		r.srcErr = errors.New("envelope has neither source nor path")
		return
	}
	// #nosec G304 -- path comes from the envelope
	r.text, r.srcErr = os.ReadFile(sourcePathOf(r.path, r.env.Path))
}

// sourcePathOf resolves the envelope's source path against the envelope
// file's directory.
func sourcePathOf(envelopePath, p string) string {
	if filepath.IsAbs(p) || envelopePath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(envelopePath), p)
}

// Load reads the envelopes at paths and registers their sources. Files
// that cannot be read or decoded are reported and marked Broken; only a
// cancelled context fails Load.
func (s *Session) Load(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		s.report(diag.SevError, diag.ProjNoSources, noFile(), "no source files to compile")
		return ErrNoSources
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "load")
	end := s.phase(PhaseLoad)

	for _, p := range paths {
		s.emit(Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}
	raws, err := s.readEnvelopes(ctx, paths, true)
	if err != nil {
		end("cancelled")
		span.End("cancelled")
		return err
	}
	broken := 0
	for i := range raws {
		u := s.addRaw(&raws[i])
		if u.Broken {
			broken++
		}
		s.units = append(s.units, u)
	}
	note := strconv.Itoa(len(raws)) + " files"
	if broken > 0 {
		note += fmt.Sprintf(", %d broken", broken)
	}
	end(note)
	span.WithExtra("files", strconv.Itoa(len(raws))).End(note)
	return nil
}

// addRaw registers one decoded envelope in the file set. Runs on the
// session goroutine: FileSet is not synchronised.
func (s *Session) addRaw(r *rawEnvelope) *Unit {
	u := &Unit{Envelope: r.path}
	fail := func(code diag.Code, format string, args ...any) *Unit {
		u.Broken = true
		if u.Path == "" {
			u.Path = r.path
		}
		u.File = s.FileSet.AddVirtual(u.Path, nil)
		s.report(diag.SevError, code, source.Span{File: u.File}, format, args...)
		s.emit(Event{File: r.path, Stage: StageLoad, Status: StatusError, Errors: 1})
		return u
	}
	switch {
	case r.err != nil && r.env == nil && r.data == nil:
		return fail(diag.IOLoadFileError, "cannot read %s: %v", r.path, r.err)
	case r.err != nil:
		return fail(diag.InpMalformedTree, "%v", r.err)
	}
	env := r.env
	u.Path = env.Path
	if u.Path == "" {
		u.Path = r.path
	}
	if r.srcErr != nil {
		return fail(diag.IOLoadFileError, "cannot read source of %s: %v", r.path, r.srcErr)
	}
	text := r.text
	flags := source.FileFlags(0)
	if env.Source != nil {
		text = []byte(*env.Source)
		flags = source.FileVirtual
	}
	u.File = s.FileSet.Add(u.Path, text, flags)
	s.initUnit(u, env)
	s.emit(Event{File: r.path, Stage: StageLoad, Status: StatusDone})
	return u
}

// AddEnvelope registers an envelope that is already in memory. Its source
// must be embedded.
func (s *Session) AddEnvelope(env *ast.Envelope) (*Unit, error) {
	if env == nil || env.Source == nil {
		return nil, errors.New("driver: envelope without source text")
	}
	path := env.Path
	if path == "" {
		path = fmt.Sprintf("<input-%d>", len(s.units))
	}
	u := &Unit{Path: path}
	u.File = s.FileSet.AddVirtual(path, []byte(*env.Source))
	s.initUnit(u, env)
	s.units = append(s.units, u)
	return u, nil
}

func (s *Session) initUnit(u *Unit, env *ast.Envelope) {
	f := s.FileSet.Get(u.File)
	u.Input = compiler.Input{
		File:       u.File,
		Program:    env.Program,
		Comments:   env.Comments,
		ParseError: env.Error,
	}
	u.Meta = project.FileMeta{
		Path:    project.NormalizePath(u.Path),
		Imports: importsOf(u.Path, u.File, env.Program),
		Hash:    f.Hash,
	}
	if env.Program != nil && int(env.Program.End) > len(f.Content) {
		u.Broken = true
		s.report(diag.SevError, diag.InpSourceMismatch, source.Span{File: u.File},
			"syntax tree ends at offset %d but the source has %d bytes", env.Program.End, len(f.Content))
	}
}
