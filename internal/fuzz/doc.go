// Package fuzztests houses Go fuzz harnesses for the ojc pipeline
// (envelope JSON -> decoder -> compiler). They guard against panics and
// hangs on arbitrary parser output.
//
// Назначение: прогонять произвольные байты через ast.DecodeEnvelope и через
// полную сессию driver.Session.
//
// Не делает: генерацию корпусов, запуск CLI.
//
// Зависимости: internal/ast, internal/driver, internal/compiler.

package fuzztests
