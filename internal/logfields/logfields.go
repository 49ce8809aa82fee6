package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyOutput     = "output"
	KeyPackage    = "package"
	KeyCategory   = "category"
	KeyKind       = "kind"
	KeyCount      = "count"
	KeyError      = "error"
	KeyGenerated  = "generated"
	KeySkipped    = "skipped"
	KeyFailed     = "failed"
	KeyReason     = "reason"
	KeyURL        = "url"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Package(name string) slog.Attr   { return slog.String(KeyPackage, name) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Generated(n int) slog.Attr       { return slog.Int(KeyGenerated, n) }
func Skipped(n int) slog.Attr         { return slog.Int(KeySkipped, n) }
func Failed(n int) slog.Attr          { return slog.Int(KeyFailed, n) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
