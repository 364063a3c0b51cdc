package compiler

import "ojc/internal/diag"

// ErrTooManyErrors is matched (errors.Is) by the error a compilation
// returns when it stopped at the error ceiling.
var ErrTooManyErrors = diag.ErrTooManyErrors

// AbortError carries the ceiling that was exceeded.
type AbortError = diag.AbortError
