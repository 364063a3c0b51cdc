package dag

import (
	"sort"

	"ojc/internal/project"
)

type NodeID uint32

type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// BuildIndex: уникальные пути файлов батча, sort.Strings, ID по порядку.
// Импорты вне батча (фреймворки) узлами не становятся.
func BuildIndex(metas []project.FileMeta) Index {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
	}

	paths := make([]string, 0, len(uniq))
	for p := range uniq {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	nameToID := make(map[string]NodeID, len(paths))
	for i, p := range paths {
		nameToID[p] = NodeID(i)
	}

	return Index{
		NameToID: nameToID,
		IDToName: paths,
	}
}
