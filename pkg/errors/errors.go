// Package errors defines the typed error taxonomy the registry, mapper,
// planner, and executor surface to callers (spec §7). Each kind is its own
// struct so callers can recover with a type switch, the same pattern the
// console service's SourceGoneError/AgentUnauthorizedError switch uses.
package errors

import "fmt"

// InvalidConfigError is a terminal validation failure at VG create/parse
// time, naming the offending field.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func NewInvalidConfigError(field, reason string) *InvalidConfigError {
	return &InvalidConfigError{Field: field, Reason: reason}
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

// AlreadyExistsError is returned when create targets an alias the
// nameservice already holds.
type AlreadyExistsError struct{ Alias string }

func NewAlreadyExistsError(alias string) *AlreadyExistsError { return &AlreadyExistsError{Alias: alias} }

func (e *AlreadyExistsError) Error() string { return fmt.Sprintf("virtual graph already exists: %s", e.Alias) }

// NotFoundError is returned when load/query targets an alias the
// nameservice does not hold.
type NotFoundError struct{ Alias string }

func NewNotFoundError(alias string) *NotFoundError { return &NotFoundError{Alias: alias} }

func (e *NotFoundError) Error() string { return fmt.Sprintf("virtual graph not found: %s", e.Alias) }

// MissingDependencyError is returned when a declared dependency ledger
// does not exist at create/load time.
type MissingDependencyError struct{ Dependency string }

func NewMissingDependencyError(dep string) *MissingDependencyError {
	return &MissingDependencyError{Dependency: dep}
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency: %s", e.Dependency)
}

// InvalidMappingError is returned by the R2RML mapper when a TriplesMap is
// missing a required piece (rr:tableName, rr:subjectMap).
type InvalidMappingError struct {
	Subject string
	Reason  string
}

func NewInvalidMappingError(subject, reason string) *InvalidMappingError {
	return &InvalidMappingError{Subject: subject, Reason: reason}
}

func (e *InvalidMappingError) Error() string {
	return fmt.Sprintf("invalid R2RML mapping for %s: %s", e.Subject, e.Reason)
}

// InvalidTimeTravelError is returned when a query references a snapshot or
// instant that does not exist in the source's statistics.
type InvalidTimeTravelError struct {
	Alias string
	T     string
}

func NewInvalidTimeTravelError(alias, t string) *InvalidTimeTravelError {
	return &InvalidTimeTravelError{Alias: alias, T: t}
}

func (e *InvalidTimeTravelError) Error() string {
	return fmt.Sprintf("invalid time travel for %s: %s", e.Alias, e.T)
}

// CartesianProductTooLargeError is returned when a fallback cross join
// would exceed the configured cap.
type CartesianProductTooLargeError struct {
	Tables   []string
	RowCounts []int
	Cap      int
}

func NewCartesianProductTooLargeError(tables []string, rowCounts []int, cap int) *CartesianProductTooLargeError {
	return &CartesianProductTooLargeError{Tables: tables, RowCounts: rowCounts, Cap: cap}
}

func (e *CartesianProductTooLargeError) Error() string {
	return fmt.Sprintf("cartesian product of tables %v exceeds cap %d (row counts %v)", e.Tables, e.Cap, e.RowCounts)
}

// MissingSourceError is returned when a pattern group routes to a table
// with no registered source.
type MissingSourceError struct{ Table string }

func NewMissingSourceError(table string) *MissingSourceError { return &MissingSourceError{Table: table} }

func (e *MissingSourceError) Error() string { return fmt.Sprintf("missing source for table: %s", e.Table) }

// ScanIOError wraps a transport/storage failure from the source adapter.
type ScanIOError struct {
	Table string
	Cause error
}

func NewScanIOError(table string, cause error) *ScanIOError { return &ScanIOError{Table: table, Cause: cause} }

func (e *ScanIOError) Error() string { return fmt.Sprintf("scan I/O error on %s: %v", e.Table, e.Cause) }
func (e *ScanIOError) Unwrap() error { return e.Cause }

// CoercionFailedError signals a pushdown value could not be coerced to a
// column's datatype; recovered by falling back to residual filtering.
type CoercionFailedError struct {
	Column   string
	Datatype string
	Value    any
}

func NewCoercionFailedError(column, datatype string, value any) *CoercionFailedError {
	return &CoercionFailedError{Column: column, Datatype: datatype, Value: value}
}

func (e *CoercionFailedError) Error() string {
	return fmt.Sprintf("cannot coerce %v to %s for column %s", e.Value, e.Datatype, e.Column)
}

// PushdownUnsupportedError signals a binding pattern has no column-backed
// mapping; recovered by leaving the pattern unannotated.
type PushdownUnsupportedError struct{ Variable string }

func NewPushdownUnsupportedError(variable string) *PushdownUnsupportedError {
	return &PushdownUnsupportedError{Variable: variable}
}

func (e *PushdownUnsupportedError) Error() string {
	return fmt.Sprintf("pushdown unsupported for variable %s", e.Variable)
}

// QueryTimeoutError is returned when an operator's deadline is exceeded.
type QueryTimeoutError struct{ Operator string }

func NewQueryTimeoutError(operator string) *QueryTimeoutError { return &QueryTimeoutError{Operator: operator} }

func (e *QueryTimeoutError) Error() string { return fmt.Sprintf("query timeout in operator: %s", e.Operator) }

// CancelledError is returned when a downstream channel close cancels an
// in-flight operator.
type CancelledError struct{ Operator string }

func NewCancelledError(operator string) *CancelledError { return &CancelledError{Operator: operator} }

func (e *CancelledError) Error() string { return fmt.Sprintf("cancelled: %s", e.Operator) }

// NoMappingError is returned when a VG with zero TriplesMappings is
// queried.
type NoMappingError struct{ Alias string }

func NewNoMappingError(alias string) *NoMappingError { return &NoMappingError{Alias: alias} }

func (e *NoMappingError) Error() string { return fmt.Sprintf("no mapping registered for: %s", e.Alias) }

// NotImplementedError is returned by a VG capability that a type
// deliberately leaves unimplemented (e.g. BM25 scoring, spec §1 "scoring
// internals are not specified").
type NotImplementedError struct {
	VGType    string
	Operation string
}

func NewNotImplementedError(vgType, operation string) *NotImplementedError {
	return &NotImplementedError{VGType: vgType, Operation: operation}
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s not implemented for %s", e.Operation, e.VGType)
}

// AmbiguousRoutingError is returned when more than one TriplesMapping
// binds the same class/predicate and the spec's "treat as an error until
// specified" open-question resolution applies (spec §9, DESIGN.md #2).
type AmbiguousRoutingError struct {
	Key      string
	Mappings []string
}

func NewAmbiguousRoutingError(key string, mappings []string) *AmbiguousRoutingError {
	return &AmbiguousRoutingError{Key: key, Mappings: mappings}
}

func (e *AmbiguousRoutingError) Error() string {
	return fmt.Sprintf("ambiguous routing for %s: matched mappings %v", e.Key, e.Mappings)
}
