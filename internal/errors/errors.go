// Package errors provides structured error types for semrel.
// It implements error classification, wrapping, and recovery detection.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind represents the category of an error.
type Kind uint8

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindInvalidConfiguration indicates a malformed version declaration,
	// unknown parser name, or unreadable configuration. Fatal.
	KindInvalidConfiguration
	// KindNotAReleaseBranch indicates the active branch matches no configured
	// release group. Non-fatal; the run short-circuits with "no release".
	KindNotAReleaseBranch
	// KindCommitParse indicates a commit message could not be parsed. Only
	// surfaced when a caller explicitly raises a ParseError.
	KindCommitParse
	// KindMergeBase indicates the repository topology yielded zero or
	// multiple merge bases. Fatal.
	KindMergeBase
	// KindVersionParse indicates a string does not parse as a semantic
	// version. Fatal for explicit parsing; tags that fail are dropped.
	KindVersionParse
	// KindHvcs indicates a hosting-service (GitHub/GitLab/Gitea) failure.
	KindHvcs
	// KindUpload indicates an artifact upload failure.
	KindUpload
	// KindGit indicates a git operation error.
	KindGit
	// KindIO indicates a file I/O error.
	KindIO
	// KindTemplate indicates a template rendering error.
	KindTemplate
	// KindValidation indicates a validation error.
	KindValidation
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindNetwork indicates a network error.
	KindNetwork
	// KindTimeout indicates a timeout error.
	KindTimeout
	// KindCanceled indicates the operation was canceled.
	KindCanceled
	// KindInternal indicates an internal error.
	KindInternal
)

// String returns a human-readable string for the error kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidConfiguration:
		return "invalid_configuration"
	case KindNotAReleaseBranch:
		return "not_a_release_branch"
	case KindCommitParse:
		return "commit_parse"
	case KindMergeBase:
		return "merge_base"
	case KindVersionParse:
		return "version_parse"
	case KindHvcs:
		return "hvcs"
	case KindUpload:
		return "upload"
	case KindGit:
		return "git"
	case KindIO:
		return "io"
	case KindTemplate:
		return "template"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the standard error type for semrel.
type Error struct {
	// Kind is the category of the error.
	Kind Kind
	// Op is the operation being performed when the error occurred.
	Op string
	// Message is a human-readable error message.
	Message string
	// Err is the underlying error.
	Err error
	// Recoverable indicates if the error can be recovered from.
	Recoverable bool
	// Details contains additional context about the error.
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches this error.
// For *Error types, it checks if both the Kind and Op match.
// For sentinel errors (errors without Op), only Kind is compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	// If target has no Op, match by Kind only (sentinel error pattern)
	if t.Op == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Op == t.Op
}

// WithDetails adds details to the error and returns the modified error.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail adds a single detail to the error and returns the modified error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Newf creates a new Error with the given kind and formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind Kind, op string, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, kind Kind, op string, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// GetKind returns the Kind of an error.
// If the error is not an *Error, it returns KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRecoverable returns true if the error is recoverable.
func IsRecoverable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Recoverable
	}
	return false
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// Common error constructors for frequently used error types.

// InvalidConfiguration creates an invalid-configuration error.
func InvalidConfiguration(op, message string) *Error {
	return &Error{
		Kind:    KindInvalidConfiguration,
		Op:      op,
		Message: message,
	}
}

// InvalidConfigurationWrap wraps an error as an invalid-configuration error.
func InvalidConfigurationWrap(err error, op, message string) *Error {
	return Wrap(err, KindInvalidConfiguration, op, message)
}

// NotAReleaseBranch creates a not-a-release-branch error. The error is
// recoverable: callers exit successfully with "no release".
func NotAReleaseBranch(op, message string) *Error {
	return &Error{
		Kind:        KindNotAReleaseBranch,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// CommitParse creates a commit-parse error.
func CommitParse(op, message string) *Error {
	return &Error{
		Kind:        KindCommitParse,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// MergeBase creates a merge-base error.
func MergeBase(op, message string) *Error {
	return &Error{
		Kind:    KindMergeBase,
		Op:      op,
		Message: message,
	}
}

// VersionParse creates a version-parse error.
func VersionParse(op, message string) *Error {
	return &Error{
		Kind:    KindVersionParse,
		Op:      op,
		Message: message,
	}
}

// VersionParseWrap wraps an error as a version-parse error.
func VersionParseWrap(err error, op, message string) *Error {
	return Wrap(err, KindVersionParse, op, message)
}

// Hvcs creates a hosting-service error. Recoverable: surfaced as a warning.
func Hvcs(op, message string) *Error {
	return &Error{
		Kind:        KindHvcs,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// HvcsWrap wraps an error as a hosting-service error.
func HvcsWrap(err error, op, message string) *Error {
	e := Wrap(err, KindHvcs, op, message)
	e.Recoverable = true
	return e
}

// Upload creates an upload error. Recoverable: surfaced as a warning.
func Upload(op, message string) *Error {
	return &Error{
		Kind:        KindUpload,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// UploadWrap wraps an error as an upload error.
func UploadWrap(err error, op, message string) *Error {
	e := Wrap(err, KindUpload, op, message)
	e.Recoverable = true
	return e
}

// Git creates a git operation error.
func Git(op, message string) *Error {
	return &Error{
		Kind:    KindGit,
		Op:      op,
		Message: message,
	}
}

// GitWrap wraps an error as a git error.
func GitWrap(err error, op, message string) *Error {
	return Wrap(err, KindGit, op, message)
}

// Validation creates a validation error.
func Validation(op, message string) *Error {
	return &Error{
		Kind:        KindValidation,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// NotFound creates a not found error.
func NotFound(op, message string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      op,
		Message: message,
	}
}

// IO creates an I/O error.
func IO(op, message string) *Error {
	return &Error{
		Kind:    KindIO,
		Op:      op,
		Message: message,
	}
}

// IOWrap wraps an error as an I/O error.
func IOWrap(err error, op, message string) *Error {
	return Wrap(err, KindIO, op, message)
}

// Network creates a network error.
func Network(op, message string) *Error {
	return &Error{
		Kind:        KindNetwork,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// Timeout creates a timeout error.
func Timeout(op, message string) *Error {
	return &Error{
		Kind:        KindTimeout,
		Op:          op,
		Message:     message,
		Recoverable: true,
	}
}

// TimeoutWrap wraps an error as a timeout error.
func TimeoutWrap(err error, op, message string) *Error {
	e := Wrap(err, KindTimeout, op, message)
	e.Recoverable = true
	return e
}

// Internal creates an internal error.
func Internal(op, message string) *Error {
	return &Error{
		Kind:    KindInternal,
		Op:      op,
		Message: message,
	}
}

// Template creates a template error.
func Template(op, message string) *Error {
	return &Error{
		Kind:    KindTemplate,
		Op:      op,
		Message: message,
	}
}

// TemplateWrap wraps an error as a template error.
func TemplateWrap(err error, op, message string) *Error {
	return Wrap(err, KindTemplate, op, message)
}

// Sensitive data redaction patterns.
// These patterns match tokens that should never appear in error messages.
// Word boundaries (\b) are used where applicable to ensure patterns match
// complete tokens and don't accidentally match substrings.
var sensitivePatterns = []*regexp.Regexp{
	// GitHub tokens: ghp_..., gho_..., ghs_..., ghr_...
	regexp.MustCompile(`\bgh[posh]_[a-zA-Z0-9]{36,}\b`),
	// GitLab personal access tokens
	regexp.MustCompile(`\bglpat-[a-zA-Z0-9_-]{20,}\b`),
	// Generic bearer tokens
	regexp.MustCompile(`\bBearer\s+[a-zA-Z0-9_-]{20,}\b`),
	// Basic auth with password in URL
	regexp.MustCompile(`://[^:/]+:[^@]+@`),
}

// RedactSensitive removes sensitive information from an error message.
// It redacts access tokens and other secrets that should not appear in logs.
func RedactSensitive(s string) string {
	result := s
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// RedactError creates a new error with sensitive data redacted from its message.
// If the error is nil, returns nil.
func RedactError(err error) error {
	if err == nil {
		return nil
	}
	redacted := RedactSensitive(err.Error())
	if redacted == err.Error() {
		return err // No change needed
	}
	return fmt.Errorf("%s", redacted)
}

// WrapSafe wraps an error with sensitive data redacted.
func WrapSafe(err error, kind Kind, op, message string) *Error {
	if err == nil {
		return &Error{
			Kind:    kind,
			Op:      op,
			Message: message,
		}
	}
	redactedErr := RedactError(err)
	return Wrap(redactedErr, kind, op, message)
}

// IsSensitive checks if a string contains sensitive patterns.
func IsSensitive(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return strings.Contains(s, "api_key") ||
		strings.Contains(s, "apikey") ||
		strings.Contains(s, "secret") ||
		strings.Contains(s, "password") ||
		strings.Contains(s, "token")
}
