package domain

// Result is the envelope every circulation operation is reported in.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Succeed(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

func Fail(err error) Result {
	return Result{Success: false, Message: err.Error()}
}
