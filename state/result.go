package state

// Status tags how a value was obtained.
type Status int

const (
	// StatusOK means the stored payload decoded cleanly.
	StatusOK Status = iota
	// StatusAbsent means the key does not exist and the default was used.
	StatusAbsent
	// StatusDegraded means the default was used because the payload could
	// not be read or decoded. Result.Cause says why.
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAbsent:
		return "absent"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Result is a tagged read: Ok(value), Absent(default) or Degraded(default, cause).
type Result[T any] struct {
	Value  T
	Status Status
	Cause  error
}

// Degraded reports whether Value is a fallback caused by an error.
func (r Result[T]) Degraded() bool {
	return r.Status == StatusDegraded
}
