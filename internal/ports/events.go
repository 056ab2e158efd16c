package ports

// EventEmitter receives progress events from long running operations.
type EventEmitter interface {
	Emit(name string, payload any)
}
