package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса

// envelopeSeeds covers the main node families, a parse error, an unknown
// node type and trees with required children missing.
var envelopeSeeds = []string{
	`{"path": "debugger.j", "source": "debugger;\n", "program": {"type": "Program", "start": 0, "end": 10, "body": [{"type": "DebuggerStatement", "start": 0, "end": 9}]}}`,
	`{"path": "globals.j", "source": "var x = 1;\nx = y;\n", "program": {"type": "Program", "start": 0, "end": 18, "body": [{"type": "VariableDeclaration", "start": 0, "end": 10, "kind": "var", "declarations": [{"type": "VariableDeclarator", "start": 4, "end": 9, "id": {"type": "Identifier", "start": 4, "end": 5, "name": "x"}, "init": {"type": "Literal", "start": 8, "end": 9, "raw": "1", "value": 1}}]}, {"type": "ExpressionStatement", "start": 11, "end": 17, "expression": {"type": "AssignmentExpression", "start": 11, "end": 16, "operator": "=", "left": {"type": "Identifier", "start": 11, "end": 12, "name": "x"}, "right": {"type": "Identifier", "start": 15, "end": 16, "name": "y"}}}]}}`,
	`{"path": "Base.j", "source": "@implementation Base\n@end\n", "program": {"type": "Program", "start": 0, "end": 26, "body": [{"type": "objj_ClassDeclaration", "start": 0, "end": 25, "objj": {"name": {"type": "Identifier", "start": 16, "end": 20, "name": "Base"}}, "body": []}]}}`,
	`{"path": "bad.j", "source": "@implementation", "error": {"message": "Expected identifier", "pos": 15}}`,
	`{"path": "x.j", "source": "", "program": {"type": "Nope", "start": 0, "end": 0}}`,
	`{"path": "noname.j", "source": "@implementation\n@end\n", "program": {"type": "Program", "start": 0, "end": 21, "body": [{"type": "objj_ClassDeclaration", "start": 0, "end": 20, "objj": {}, "body": []}]}}`,
	`{"path": "noexpr.j", "source": "x;\n", "program": {"type": "Program", "start": 0, "end": 3, "body": [{"type": "ExpressionStatement", "start": 0, "end": 2}]}}`,
	`{"path": "holes.j", "source": "a;\n", "program": {"type": "Program", "start": 0, "end": 3, "body": [null, {"type": "ExpressionStatement", "start": 0, "end": 2, "expression": {"type": "Identifier", "start": 0, "end": 1}}]}}`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range envelopeSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every envelope found under testdata/ directories of
// the module.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || (strings.HasPrefix(d.Name(), ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".j.json") || !strings.Contains(filepath.ToSlash(path), "/testdata/") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
