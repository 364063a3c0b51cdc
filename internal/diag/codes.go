package diag

import (
	"fmt"
	"sort"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Входные данные (envelope / parser)
	InpInfo           Code = 2000
	InpParseError     Code = 2001
	InpMalformedTree  Code = 2002
	InpSourceMismatch Code = 2003

	// Семантические
	SemInfo                     Code = 3000
	SemDuplicateDefinition      Code = 3001
	SemDuplicateIgnored         Code = 3002
	SemMissingBaseClass         Code = 3003
	SemUnnecessaryForward       Code = 3004
	SemSymbolRedefined          Code = 3005
	SemReadOnlyGlobal           Code = 3006
	SemImplicitGlobal           Code = 3007
	SemUnknownIdentifier        Code = 3008
	SemShadowedVar              Code = 3009
	SemLocalHidesIvar           Code = 3010
	SemUnknownType              Code = 3011
	SemUnknownProtocol          Code = 3012
	SemUnimplementedMethod      Code = 3013
	SemReadonlySetter           Code = 3014
	SemSetterConflict           Code = 3015
	SemDebugger                 Code = 3016
	SemUntypedParameter         Code = 3017
	SemUnknownSuperclass        Code = 3018
	SemProtocolUnknownInLiteral Code = 3019

	// Ошибки I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Проект
	ProjInfo          Code = 5000
	ProjNoSources     Code = 5001
	ProjCacheMismatch Code = 5002
	ProjImportCycle   Code = 5003

	// Observability
	ObsInfo Code = 6000
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	InpInfo:                     "Input information",
	InpParseError:               "Parse error",
	InpMalformedTree:            "Malformed syntax tree",
	InpSourceMismatch:           "Node offsets outside the source text",
	SemInfo:                     "Semantic information",
	SemDuplicateDefinition:      "Duplicate definition",
	SemDuplicateIgnored:         "Duplicate definition ignored",
	SemMissingBaseClass:         "Category without implementation",
	SemUnnecessaryForward:       "Unnecessary @class declaration",
	SemSymbolRedefined:          "Symbol previously defined as another kind",
	SemReadOnlyGlobal:           "Assignment to read-only predefined global",
	SemImplicitGlobal:           "Implicitly created global",
	SemUnknownIdentifier:        "Unknown identifier",
	SemShadowedVar:              "Declaration hides another declaration",
	SemLocalHidesIvar:           "Local variable hides an instance variable",
	SemUnknownType:              "Unknown type",
	SemUnknownProtocol:          "Unknown protocol",
	SemUnimplementedMethod:      "Protocol method not implemented",
	SemReadonlySetter:           "Setter specified for readonly ivar",
	SemSetterConflict:           "Setter defined for readonly ivar",
	SemDebugger:                 "Debugger statement",
	SemUntypedParameter:         "Method parameter without type",
	SemUnknownSuperclass:        "Superclass never defined",
	SemProtocolUnknownInLiteral: "Unknown protocol in @protocol expression",
	IOLoadFileError:             "I/O load file error",
	IOWriteFileError:            "I/O write file error",
	ProjInfo:                    "Project information",
	ProjNoSources:               "No sources found",
	ProjCacheMismatch:           "Registry cache out of date",
	ProjImportCycle:             "Import cycle",
	ObsInfo:                     "Observability information",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return "Unknown error"
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Category groups warnings that can be switched on and off together.
type Category uint8

const (
	// CatNone marks issues that no toggle can silence.
	CatNone Category = iota
	CatDebugger
	CatShadowedVars
	CatImplicitGlobals
	CatUnknownIdentifiers
	CatParameterTypes
	CatUnknownTypes
	CatUnimplementedProtocolMethods
)

var categoryNames = map[Category]string{
	CatDebugger:                     "debugger",
	CatShadowedVars:                 "shadowed-vars",
	CatImplicitGlobals:              "implicit-globals",
	CatUnknownIdentifiers:           "unknown-identifiers",
	CatParameterTypes:               "parameter-types",
	CatUnknownTypes:                 "unknown-types",
	CatUnimplementedProtocolMethods: "unimplemented-protocol-methods",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "none"
}

// ParseCategory accepts the dashed category names used on the command line
// and in ojc.toml.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return CatNone, fmt.Errorf("unknown warning category %q (expected one of: %s)", s, strings.Join(CategoryNames(), ", "))
}

// CategoryNames lists every toggleable category, sorted.
func CategoryNames() []string {
	out := make([]string, 0, len(categoryNames))
	for _, n := range categoryNames {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var codeCategory = map[Code]Category{
	SemDebugger:            CatDebugger,
	SemShadowedVar:         CatShadowedVars,
	SemLocalHidesIvar:      CatShadowedVars,
	SemImplicitGlobal:      CatImplicitGlobals,
	SemUnknownIdentifier:   CatUnknownIdentifiers,
	SemUntypedParameter:    CatParameterTypes,
	SemUnknownType:         CatUnknownTypes,
	SemUnimplementedMethod: CatUnimplementedProtocolMethods,
}

// Category returns the toggle that governs warnings with this code.
func (c Code) Category() Category {
	return codeCategory[c]
}

// Warnings holds per-category switches.
type Warnings map[Category]bool

// DefaultWarnings returns the categories enabled out of the box.
func DefaultWarnings() Warnings {
	return Warnings{
		CatDebugger:                     true,
		CatShadowedVars:                 true,
		CatImplicitGlobals:              true,
		CatUnknownIdentifiers:           false,
		CatParameterTypes:               false,
		CatUnknownTypes:                 false,
		CatUnimplementedProtocolMethods: true,
	}
}

// Enabled reports whether warnings of category c should be produced.
// CatNone is always enabled.
func (w Warnings) Enabled(c Category) bool {
	if c == CatNone {
		return true
	}
	return w[c]
}

// Clone returns an independent copy.
func (w Warnings) Clone() Warnings {
	out := make(Warnings, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
