// Package format accumulates generated code.
//
// Buffer is an append-log of spans. Every Write returns a SpanID that can
// later be tombstoned with Remove; String concatenates the live spans in
// order. Indentation is written lazily at the start of a line as its own
// span, so removing text never removes the indentation in front of it.
//
// A Descriptor supplies per-node-kind "before"/"after" layout (newlines,
// blank lines, indentation) and is loaded from YAML. Two descriptors are
// built in: "cappuccino" and "identity".
//
// Зависимости: internal/ast, internal/source, gopkg.in/yaml.v3.
package format
