package texman

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the texman error domain type.
//
// Errors coming from texman components should be able to be inspected as
// ([errors.As]) an *Error at some point in the error chain.
//
// Components should create an Error at the system boundary (a network
// call, a database call, a filesystem call) and intermediate layers should
// not wrap in another Error except to add additional [ErrorKind]
// information. Use [fmt.Errorf] with a "%w" verb in preference to creating
// a containing Error.
type Error struct {
	Inner   error
	Kind    ErrorKind
	Message string
	Op      string
}

var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	b.WriteString("[")
	switch e.Kind {
	case ErrNotFound, ErrCycle, ErrConflict, ErrInternal, ErrInvalid,
		ErrPrecondition, ErrTransient:
		b.WriteString(string(e.Kind))
	default:
		b.WriteString("???")
	}
	b.WriteString("]: ")
	if e.Message != "" {
		b.WriteString(e.Message)
	}
	if e.Message != "" && e.Inner != nil {
		b.WriteString(": ")
	}
	if e.Inner != nil {
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables [errors.Is] to compare against an [ErrorKind].
func (e *Error) Is(kind error) bool {
	return errors.Is(e.Kind, kind)
}

// Unwrap enables [errors.Unwrap].
func (e *Error) Unwrap() error { return e.Inner }

// ErrorKind classifies the kind of failure an [Error] represents.
type ErrorKind string

// Error implements error, so an ErrorKind itself can be used as a sentinel
// with [errors.Is].
func (k ErrorKind) Error() string { return string(k) }

const (
	ErrConflict     = ErrorKind("conflict")     // conflicting action
	ErrInternal     = ErrorKind("internal")      // non-specific internal error
	ErrInvalid      = ErrorKind("invalid")       // invalid request
	ErrPrecondition = ErrorKind("precondition")  // some precondition unfulfilled
	ErrTransient    = ErrorKind("transient")     // may succeed on retry
	ErrNotFound     = ErrorKind("not found")     // named entity absent
	ErrCycle        = ErrorKind("dependency cycle")
)

// PackageNotFound reports that name has no entry in the package index.
func PackageNotFound(name string) error {
	return &Error{Kind: ErrNotFound, Op: "resolve", Message: fmt.Sprintf("package %q not found", name)}
}

// DependencyCycle reports that name was encountered twice on the same
// resolution path before being fully resolved.
func DependencyCycle(name string) error {
	return &Error{Kind: ErrCycle, Op: "resolve", Message: fmt.Sprintf("dependency cycle at %q", name)}
}

// CatalogFetch wraps a failure retrieving the TLPDB catalog.
func CatalogFetch(cause error) error {
	return &Error{Kind: ErrTransient, Op: "catalog fetch", Inner: cause}
}

// CatalogEncoding reports that the fetched catalog body was not valid UTF-8.
func CatalogEncoding() error {
	return &Error{Kind: ErrInvalid, Op: "catalog fetch", Message: "catalog body is not valid UTF-8"}
}

// CatalogParse wraps a failure parsing TLPDB text.
func CatalogParse(cause error) error {
	return &Error{Kind: ErrInvalid, Op: "catalog parse", Inner: cause}
}

// ArchiveFetch reports a failure downloading name's archive from url.
func ArchiveFetch(name, url string, cause error) error {
	return &Error{Kind: ErrTransient, Op: "archive fetch", Message: fmt.Sprintf("%s (%s)", name, url), Inner: cause}
}

// ExtractFailure reports a failure extracting name's archive.
func ExtractFailure(name string, cause error) error {
	return &Error{Kind: ErrInternal, Op: "extract", Message: name, Inner: cause}
}

// ProfileMissing reports that profile name does not exist.
func ProfileMissing(name string) error {
	return &Error{Kind: ErrNotFound, Op: "profile", Message: fmt.Sprintf("profile %q does not exist", name)}
}

// ProfileInUse reports that profile name is the active profile and cannot
// be removed.
func ProfileInUse(name string) error {
	return &Error{Kind: ErrConflict, Op: "profile", Message: fmt.Sprintf("profile %q is active", name)}
}

// BackupMissing reports that backup name does not exist.
func BackupMissing(name string) error {
	return &Error{Kind: ErrNotFound, Op: "backup", Message: fmt.Sprintf("backup %q does not exist", name)}
}

// RevisionFormat reports that a revision token did not parse as a decimal
// integer when an ordering comparison was required.
func RevisionFormat(pkg, revision string) error {
	return &Error{Kind: ErrInvalid, Op: "update", Message: fmt.Sprintf("package %q has non-numeric revision %q", pkg, revision)}
}

// IO wraps a filesystem failure at path.
func IO(path string, cause error) error {
	return &Error{Kind: ErrInternal, Op: "io", Message: path, Inner: cause}
}

// Database wraps a failure from the state store.
func Database(cause error) error {
	return &Error{Kind: ErrInternal, Op: "database", Inner: cause}
}
