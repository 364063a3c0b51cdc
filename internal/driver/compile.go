package driver

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"ojc/internal/compiler"
	"ojc/internal/diag"
	"ojc/internal/project"
	"ojc/internal/project/dag"
	"ojc/internal/source"
	"ojc/internal/symbols"
	"ojc/internal/trace"
)

// Order sorts the units so that every file follows the local files it
// imports. Files on an import cycle keep their path order and get a
// warning.
func (s *Session) Order(ctx context.Context) {
	_, span := trace.Start(ctx, trace.ScopePass, "order")
	end := s.phase(PhaseOrder)

	metas := make([]project.FileMeta, 0, len(s.units))
	byPath := make(map[string]*Unit, len(s.units))
	var dups []*Unit
	for _, u := range s.units {
		if _, seen := byPath[u.Meta.Path]; seen {
			dups = append(dups, u)
			continue
		}
		byPath[u.Meta.Path] = u
		metas = append(metas, u.Meta)
	}
	idx := dag.BuildIndex(metas)
	g := dag.BuildGraph(idx, metas)
	topo := dag.ToposortKahn(g)
	dag.ReportCycles(idx, g, topo, s.ledger)

	ordered := make([]*Unit, 0, len(s.units))
	for _, id := range topo.Order {
		ordered = append(ordered, byPath[idx.IDToName[int(id)]])
	}
	s.units = append(ordered, dups...)

	note := fmt.Sprintf("%d batches", len(topo.Batches))
	if topo.Cyclic {
		note += fmt.Sprintf(", %d on cycles", len(topo.Cycles))
	}
	end(note)
	span.End(note)
}

// CompileFiles compiles every loaded unit in order, folding definitions
// into the shared registries, then links superclasses. The context is
// checked between files.
func (s *Session) CompileFiles(ctx context.Context) error {
	ctx, span := trace.Start(ctx, trace.ScopePass, "compile")
	end := s.phase(PhaseCompile)

	for _, u := range s.units {
		if !u.Broken {
			s.emit(Event{File: eventFile(u), Stage: StageCompile, Status: StatusQueued})
		}
	}
	compiled := 0
	for _, u := range s.units {
		if err := ctx.Err(); err != nil {
			end("cancelled")
			span.End("cancelled")
			return err
		}
		if u.Broken {
			continue
		}
		if err := s.compileUnit(ctx, u); err != nil {
			end("failed")
			span.End(err.Error())
			return err
		}
		compiled++
	}
	note := strconv.Itoa(compiled) + " files"
	end(note)
	span.End(note)

	s.ResolveSuperclasses(ctx)
	return nil
}

func (s *Session) compileUnit(ctx context.Context, u *Unit) error {
	label, file := unitLabel(u), eventFile(u)
	_, span := trace.Start(ctx, trace.ScopeFile, "file:"+label)
	s.emit(Event{File: file, Stage: StageCompile, Status: StatusWorking})
	started := time.Now()

	res, err := compiler.Compile(s.FileSet, u.Input, s.Registries, s.opts.Compiler, s.opts.Rules)
	if err != nil {
		err = fmt.Errorf("%s: %w", label, err)
		s.emit(Event{File: file, Stage: StageCompile, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		span.End(err.Error())
		return err
	}
	u.Result = res

	errs := res.ErrorCount()
	warnings := len(res.Issues) - errs
	status := StatusDone
	if errs > 0 {
		status = StatusError
	}
	s.emit(Event{
		File:     file,
		Stage:    StageCompile,
		Status:   status,
		Elapsed:  time.Since(started),
		Errors:   errs,
		Warnings: warnings,
	})
	span.WithExtra("errors", strconv.Itoa(errs)).
		WithExtra("warnings", strconv.Itoa(warnings))
	if res.Aborted {
		span.Point("abort", "error ceiling reached")
	}
	span.End("")
	return nil
}

// ResolveSuperclasses links every class to its superclass now that the
// whole batch is registered and reports each superclass that is still
// unknown, with a suggestion when a similar class exists.
func (s *Session) ResolveSuperclasses(ctx context.Context) {
	_, span := trace.Start(ctx, trace.ScopePass, "resolve")
	end := s.phase(PhaseResolve)

	missing := s.Registries.LinkSuperclasses()
	unresolved := make(map[*symbols.ClassDef]bool, len(missing))
	for _, key := range missing {
		if def := s.Registries.ClassDef(key); def != nil {
			unresolved[def] = true
		}
	}

	reported := 0
	for _, u := range s.units {
		if u.Result == nil {
			continue
		}
		for _, ref := range u.Result.SuperclassRefs {
			if !unresolved[ref.Class] || ref.Superclass == nil {
				continue
			}
			r := ref.Superclass.Range()
			b := diag.ReportError(s.ledger, diag.SemUnknownSuperclass,
				source.Span{File: ref.File, Start: r.Start, End: r.End},
				"cannot find superclass '%s' of class '%s'", ref.Superclass.Name, ref.Class.Name)
			if hint := s.Registries.Classes.Suggest(ref.Superclass.Name); hint != "" {
				b = b.WithNote(source.Span{File: ref.File, Start: r.Start, End: r.End}, "did you mean '%s'?", hint)
			}
			_ = b.Emit()
			s.emit(Event{File: eventFile(u), Stage: StageResolve, Status: StatusError, Errors: 1})
			reported++
			// один раз на класс
			delete(unresolved, ref.Class)
		}
	}
	note := strconv.Itoa(reported) + " unresolved"
	end(note)
	span.End(note)
}

// LoadPrelude makes the declarations of paths available to the batch
// without emitting code for them. The resulting registries are cached on
// disk under a digest of the envelopes and the options that shape them.
func (s *Session) LoadPrelude(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "prelude")
	end := s.phase(PhasePrelude)

	paths = append([]string(nil), paths...)
	sort.Strings(paths)
	raws, err := s.readEnvelopes(ctx, paths, false)
	if err != nil {
		end("cancelled")
		span.End("cancelled")
		return err
	}
	key := s.preludeKey(raws)

	var payload DiskPayload
	hit, err := s.opts.Cache.Get(key, &payload)
	if err != nil {
		span.Point("cache", "unreadable entry: "+err.Error())
		s.report(diag.SevWarning, diag.ProjCacheMismatch, noFile(),
			"registry cache entry %s is unreadable, rebuilding: %v", key.Short(), err)
	}
	if hit {
		s.Registries.Restore(s.FileSet, payload.Snapshot)
		s.replayIssues(payload.Issues)
		s.CacheHit = true
		end("cache hit " + key.Short())
		span.End("cache hit")
		return nil
	}

	var (
		warnings []CachedIssue
		failed   bool
	)
	for i := range raws {
		if raws[i].err == nil {
			raws[i].decode()
		}
		u := s.addRaw(&raws[i])
		s.prelude = append(s.prelude, u)
		if u.Broken {
			failed = true
			continue
		}
		res, err := compiler.Compile(s.FileSet, u.Input, s.Registries, s.opts.Compiler, s.opts.Rules)
		if err != nil {
			end("failed")
			span.End(err.Error())
			return fmt.Errorf("%s: %w", unitLabel(u), err)
		}
		u.Result = res
		for _, is := range res.Issues {
			switch {
			case is.IsError():
				failed = true
			case is.IsWarning():
				warnings = append(warnings, cacheIssue(is))
			}
		}
	}
	s.Registries.LinkSuperclasses()
	switch {
	case failed:
		span.Point("cache", "prelude has errors, not cached")
	default:
		payload := &DiskPayload{Files: paths, Snapshot: s.Registries.Snapshot(s.FileSet), Issues: warnings}
		if err := s.opts.Cache.Put(key, payload); err != nil {
			span.Point("cache", "write failed: "+err.Error())
		}
	}
	note := fmt.Sprintf("%d files, cache miss %s", len(paths), key.Short())
	end(note)
	span.End(note)
	return nil
}

// replayIssues adds the warnings of a cached prelude to the ledger. Files
// the snapshot brought back resolve again; the rest keep their recorded
// position.
func (s *Session) replayIssues(cached []CachedIssue) {
	for _, c := range cached {
		sp := noFile()
		if id, ok := s.FileSet.GetLatest(c.Path); ok {
			sp = source.Span{File: id, Start: c.Start, End: c.End}
		}
		_ = s.ledger.Report(&diag.Issue{
			Severity: c.Severity,
			Code:     c.Code,
			Message:  c.Message,
			Primary:  sp,
			Path:     c.Path,
			Pos:      source.LineCol{Line: c.Line, Col: c.Col},
		})
	}
}

// preludeKey digests the envelopes together with the options that change
// what gets registered.
func (s *Session) preludeKey(raws []rawEnvelope) project.Digest {
	o := s.opts.Compiler
	fingerprint := fmt.Sprintf("schema=%d env=%s policy=%s", diskCacheSchemaVersion, o.Environment, o.CategoryPolicy)
	deps := make([]project.Digest, 0, 2*len(raws))
	for _, r := range raws {
		deps = append(deps, project.DigestString(r.path), r.hash)
	}
	return project.Combine(project.DigestString(fingerprint), deps...)
}
