package symbols

import (
	"fmt"
	"sort"
	"strings"
)

// Global describes a name the host environment predefines.
type Global struct {
	Writable bool
	// IgnoreShadow globals may be redeclared locally without a warning.
	IgnoreShadow bool
}

// Globals is the predefined-global table of one environment.
type Globals map[string]Global

// Lookup returns the global and whether name is predefined.
func (g Globals) Lookup(name string) (Global, bool) {
	gl, ok := g[name]
	return gl, ok
}

func (g Globals) Has(name string) bool {
	_, ok := g[name]
	return ok
}

// Environment names accepted by PredefinedGlobals.
const (
	EnvBrowser = "browser"
	EnvNode    = "node"
	EnvBare    = "bare"
)

// Environments lists the accepted environment names.
func Environments() []string {
	return []string{EnvBare, EnvBrowser, EnvNode}
}

// PredefinedGlobals assembles the table for env. Every environment gets the
// language-level names; browser also gets the devel set.
func PredefinedGlobals(env string) (Globals, error) {
	out := make(Globals, 256)
	for _, set := range []map[string]Global{reserved, nonstandard, ecmaIdentifiers, newEcmaIdentifiers, runtime} {
		merge(out, set)
	}
	switch strings.ToLower(env) {
	case EnvBrowser, "":
		merge(out, browser)
		merge(out, devel)
	case EnvNode:
		merge(out, node)
	case EnvBare:
	default:
		return nil, fmt.Errorf("unknown environment %q (expected one of: %s)", env, strings.Join(Environments(), ", "))
	}
	return out, nil
}

// Names returns the sorted global names.
func (g Globals) Names() []string {
	out := make([]string, 0, len(g))
	for name := range g {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func merge(dst Globals, src map[string]Global) {
	for k, v := range src {
		dst[k] = v
	}
}

var (
	ro = Global{}
	rw = Global{Writable: true}
	// rwQuiet marks short browser names that scripts commonly reuse.
	rwQuiet = Global{Writable: true, IgnoreShadow: true}
	roQuiet = Global{IgnoreShadow: true}
)

var reserved = map[string]Global{
	"arguments": ro,
	"NaN":       ro,
	"Infinity":  ro,
	"undefined": ro,
}

// runtime names every compiled file may rely on.
var runtime = map[string]Global{
	"YES":  ro,
	"NO":   ro,
	"nil":  ro,
	"Nil":  ro,
	"NULL": ro,
}

var nonstandard = map[string]Global{
	"escape":   ro,
	"unescape": ro,
}

var ecmaIdentifiers = map[string]Global{
	"Array":              ro,
	"Boolean":            ro,
	"Date":               ro,
	"decodeURI":          ro,
	"decodeURIComponent": ro,
	"encodeURI":          ro,
	"encodeURIComponent": ro,
	"Error":              ro,
	"eval":               ro,
	"EvalError":          ro,
	"Function":           ro,
	"hasOwnProperty":     ro,
	"isFinite":           ro,
	"isNaN":              ro,
	"JSON":               ro,
	"Math":               ro,
	"Number":             ro,
	"Object":             ro,
	"parseInt":           ro,
	"parseFloat":         ro,
	"RangeError":         ro,
	"ReferenceError":     ro,
	"RegExp":             ro,
	"String":             ro,
	"SyntaxError":        ro,
	"TypeError":          ro,
	"URIError":           ro,
}

var newEcmaIdentifiers = map[string]Global{
	"ArrayBuffer":       ro,
	"DataView":          ro,
	"Float32Array":      ro,
	"Float64Array":      ro,
	"Int8Array":         ro,
	"Int16Array":        ro,
	"Int32Array":        ro,
	"Map":               ro,
	"Promise":           ro,
	"Proxy":             ro,
	"Reflect":           ro,
	"Set":               ro,
	"Symbol":            ro,
	"Uint8Array":        ro,
	"Uint8ClampedArray": ro,
	"Uint16Array":       ro,
	"Uint32Array":       ro,
	"WeakMap":           ro,
	"WeakSet":           ro,
}

var browser = map[string]Global{
	"addEventListener":      ro,
	"atob":                  ro,
	"blur":                  ro,
	"btoa":                  ro,
	"cancelAnimationFrame":  ro,
	"clearInterval":         ro,
	"clearTimeout":          ro,
	"close":                 roQuiet,
	"closed":                roQuiet,
	"CustomEvent":           ro,
	"document":              ro,
	"DOMParser":             ro,
	"Element":               ro,
	"event":                 roQuiet,
	"Event":                 ro,
	"FileReader":            ro,
	"focus":                 ro,
	"FormData":              ro,
	"frames":                roQuiet,
	"getComputedStyle":      ro,
	"history":               ro,
	"HTMLElement":           ro,
	"Image":                 ro,
	"length":                roQuiet,
	"localStorage":          ro,
	"location":              rw,
	"matchMedia":            ro,
	"MutationObserver":      ro,
	"name":                  rwQuiet,
	"navigator":             ro,
	"Node":                  ro,
	"onbeforeunload":        rw,
	"onblur":                rw,
	"onerror":               rw,
	"onfocus":               rw,
	"onload":                rw,
	"onresize":              rw,
	"onunload":              rw,
	"open":                  roQuiet,
	"opener":                roQuiet,
	"Option":                ro,
	"parent":                roQuiet,
	"postMessage":           ro,
	"print":                 roQuiet,
	"removeEventListener":   ro,
	"requestAnimationFrame": ro,
	"screen":                ro,
	"scroll":                roQuiet,
	"scrollBy":              ro,
	"scrollTo":              ro,
	"self":                  roQuiet,
	"sessionStorage":        ro,
	"setInterval":           ro,
	"setTimeout":            ro,
	"status":                rwQuiet,
	"stop":                  roQuiet,
	"top":                   roQuiet,
	"URL":                   ro,
	"WebSocket":             ro,
	"window":                ro,
	"Worker":                ro,
	"XMLHttpRequest":        ro,
}

var devel = map[string]Global{
	"alert":   ro,
	"confirm": ro,
	"console": ro,
	"prompt":  ro,
}

var node = map[string]Global{
	"__dirname":      ro,
	"__filename":     ro,
	"Buffer":         ro,
	"clearImmediate": ro,
	"clearInterval":  ro,
	"clearTimeout":   ro,
	"console":        ro,
	"exports":        rw,
	"global":         ro,
	"module":         ro,
	"process":        ro,
	"require":        ro,
	"setImmediate":   ro,
	"setInterval":    ro,
	"setTimeout":     ro,
}
