package domain

// Result is the uniform response of the approval form actions:
// {error} on failure, {success, message} on success.
type Result struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

func Failed(err error) Result {
	return Result{Error: err.Error()}
}
