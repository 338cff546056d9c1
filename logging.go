package fcl

import "go.uber.org/zap"

// pkgLogger backs every non-fatal diagnostic this package emits: unsupported
// CCD dispatch combinations, unregister-of-unknown-object no-ops, and
// (at debug level) repeated registration of the same object. Mirrors the source's
// `std::cerr <<` warnings, but structured and leveled rather than bare
// stderr writes, following the rest of the retrieval pack's convention of
// a package-held *zap.Logger instead of the teacher's ad hoc
// `log.Println("Internal Error: ...")` (space.go).
var pkgLogger = zap.NewNop()

// SetLogger installs l as the package-wide diagnostic logger. Libraries
// default to a no-op logger (zap.NewNop) so importing this package is
// silent until a host application opts in.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	pkgLogger = l
}

func logger() *zap.Logger {
	return pkgLogger
}
