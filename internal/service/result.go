package service

// Result is the uniform outcome every persistence operation returns,
// whether the failure came from the storage collaborator or from a
// not-found condition. Collaborator error messages are never surfaced
// here; they are logged server-side and replaced with a generic
// user-facing message.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func success[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func failure[T any](message string) Result[T] {
	return Result[T]{Success: false, Error: message}
}
