package symbols

import (
	"ojc/internal/ast"
	"ojc/internal/source"
)

// Snapshot is a serialisable copy of Registries. Nodes are reduced to the
// identifier and range they cover; the source text of every referenced file
// travels along so restored spans still resolve to lines and columns.
type Snapshot struct {
	Files     []FileSnapshot
	Classes   []ClassSnapshot
	Protocols []ProtocolSnapshot
	TypeDefs  []DeclSnapshot
}

type FileSnapshot struct {
	Path    string
	Content []byte
}

// DeclSnapshot is a named declaration site. File indexes Snapshot.Files,
// -1 when the declaration had no file.
type DeclSnapshot struct {
	Name  string
	File  int
	Start uint32
	End   uint32
}

type MethodSnapshot struct {
	Decl     DeclSnapshot
	Selector string
	Types    []string
}

type IvarSnapshot struct {
	Decl      DeclSnapshot
	Type      string
	Property  string
	Getter    string
	Setter    string
	Readonly  bool
	Readwrite bool
	Copy      bool
	Accessors bool
}

type ClassSnapshot struct {
	Key             string
	Decl            DeclSnapshot
	Category        string
	Forward         bool
	Superclass      string
	Protocols       []string
	Ivars           []IvarSnapshot
	InstanceMethods []MethodSnapshot
	ClassMethods    []MethodSnapshot
}

type ProtocolSnapshot struct {
	Decl             DeclSnapshot
	Protocols        []string
	RequiredInstance []MethodSnapshot
	RequiredClass    []MethodSnapshot
	OptionalInstance []MethodSnapshot
	OptionalClass    []MethodSnapshot
}

type snapshotter struct {
	fs    *source.FileSet
	files map[source.FileID]int
	out   *Snapshot
}

// Snapshot captures every registered definition. fs resolves the files the
// declarations point into; it may be nil, in which case no text is kept.
func (r *Registries) Snapshot(fs *source.FileSet) *Snapshot {
	s := &snapshotter{fs: fs, files: make(map[source.FileID]int), out: &Snapshot{}}

	r.Classes.Each(func(key string, def *ClassDef) {
		cs := ClassSnapshot{
			Key:        key,
			Decl:       s.decl(def.Name, def.Decl),
			Category:   def.Category,
			Forward:    def.Forward,
			Superclass: def.SuperclassName,
			Protocols:  append([]string(nil), def.Protocols...),
		}
		for _, iv := range def.ivars {
			cs.Ivars = append(cs.Ivars, s.ivar(iv))
		}
		cs.InstanceMethods = s.methods(def.instanceMethods)
		cs.ClassMethods = s.methods(def.classMethods)
		s.out.Classes = append(s.out.Classes, cs)
	})

	r.Protocols.Each(func(name string, def *ProtocolDef) {
		ps := ProtocolSnapshot{
			Decl:             s.decl(name, def.Decl),
			RequiredInstance: s.methods(def.RequiredInstanceMethods),
			RequiredClass:    s.methods(def.RequiredClassMethods),
			OptionalInstance: s.methods(def.OptionalInstanceMethods),
			OptionalClass:    s.methods(def.OptionalClassMethods),
		}
		for _, p := range def.Protocols {
			ps.Protocols = append(ps.Protocols, p.Name)
		}
		s.out.Protocols = append(s.out.Protocols, ps)
	})

	r.TypeDefs.Each(func(name string, def *TypeDef) {
		s.out.TypeDefs = append(s.out.TypeDefs, s.decl(name, def.Decl))
	})
	return s.out
}

func (s *snapshotter) decl(name string, d Decl) DeclSnapshot {
	ds := DeclSnapshot{Name: name, File: -1}
	if d.Node != nil {
		r := d.Node.Range()
		ds.Start, ds.End = r.Start, r.End
	}
	if s.fs == nil {
		return ds
	}
	if idx, ok := s.files[d.File]; ok {
		ds.File = idx
		return ds
	}
	f := s.fs.Get(d.File)
	if f == nil {
		return ds
	}
	ds.File = len(s.out.Files)
	s.files[d.File] = ds.File
	s.out.Files = append(s.out.Files, FileSnapshot{Path: f.Path, Content: f.Content})
	return ds
}

func (s *snapshotter) methods(set *MethodSet) []MethodSnapshot {
	var out []MethodSnapshot
	for _, m := range set.All() {
		out = append(out, MethodSnapshot{
			Decl:     s.decl(m.Selector, m.Decl),
			Selector: m.Selector,
			Types:    append([]string(nil), m.Types...),
		})
	}
	return out
}

func (s *snapshotter) ivar(iv *Ivar) IvarSnapshot {
	is := IvarSnapshot{Decl: s.decl(iv.Name, iv.Decl), Type: iv.Type}
	if acc := iv.Accessors; acc != nil {
		is.Accessors = true
		is.Readonly, is.Readwrite, is.Copy = acc.Readonly, acc.Readwrite, acc.Copy
		is.Property = identName(acc.Property)
		is.Getter = identName(acc.Getter)
		is.Setter = identName(acc.Setter)
	}
	return is
}

func identName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func optIdent(name string) *ast.Identifier {
	if name == "" {
		return nil
	}
	return ast.Ident(name)
}

// Restore folds snap into r, registering the snapshot's files in fs.
// Existing entries with the same key are overwritten; superclass and
// category links are re-established by name afterwards.
func (r *Registries) Restore(fs *source.FileSet, snap *Snapshot) {
	if snap == nil {
		return
	}
	ids := make([]source.FileID, len(snap.Files))
	for i, f := range snap.Files {
		if fs != nil {
			ids[i] = fs.Add(f.Path, f.Content, 0)
		}
	}
	decl := func(ds DeclSnapshot) Decl {
		d := Decl{Node: ast.At(ast.Ident(ds.Name), ds.Start, ds.End)}
		if ds.File >= 0 && ds.File < len(ids) {
			d.File = ids[ds.File]
		}
		return d
	}
	methods := func(list []MethodSnapshot, add func(*MethodDef)) {
		for _, ms := range list {
			add(NewMethodDef(decl(ms.Decl), ms.Selector, append([]string(nil), ms.Types...)))
		}
	}

	for _, ps := range snap.Protocols {
		p := NewProtocolDef(decl(ps.Decl), ps.Decl.Name, nil)
		methods(ps.RequiredInstance, func(m *MethodDef) { p.AddMethod(m, false, true) })
		methods(ps.RequiredClass, func(m *MethodDef) { p.AddMethod(m, true, true) })
		methods(ps.OptionalInstance, func(m *MethodDef) { p.AddMethod(m, false, false) })
		methods(ps.OptionalClass, func(m *MethodDef) { p.AddMethod(m, true, false) })
		r.AddProtocolDef(p.Name, p)
	}
	for _, ps := range snap.Protocols {
		p := r.ProtocolDef(ps.Decl.Name)
		for _, name := range ps.Protocols {
			if inherited := r.ProtocolDef(name); inherited != nil {
				p.Protocols = append(p.Protocols, inherited)
			}
		}
	}

	for _, cs := range snap.Classes {
		c := NewClassDef(decl(cs.Decl), cs.Decl.Name, cs.Superclass, cs.Category)
		c.Forward = cs.Forward
		c.Protocols = append([]string(nil), cs.Protocols...)
		for _, is := range cs.Ivars {
			iv := &Ivar{Decl: decl(is.Decl), Name: is.Decl.Name, Type: is.Type}
			if is.Accessors {
				iv.Accessors = &ast.Accessors{
					Property:  optIdent(is.Property),
					Getter:    optIdent(is.Getter),
					Setter:    optIdent(is.Setter),
					Readonly:  is.Readonly,
					Readwrite: is.Readwrite,
					Copy:      is.Copy,
				}
			}
			c.AddIvar(iv)
		}
		methods(cs.InstanceMethods, c.instanceMethods.Add)
		methods(cs.ClassMethods, c.classMethods.Add)
		r.Classes.Add(cs.Key, c)
	}
	for _, ts := range snap.TypeDefs {
		r.AddTypeDef(&TypeDef{Decl: decl(ts), Name: ts.Name})
	}
	r.Classes.Each(func(_ string, c *ClassDef) {
		if c.IsCategory() && c.Base == nil {
			c.Base = r.ClassDef(c.Name)
		}
	})
	r.LinkSuperclasses()
}
