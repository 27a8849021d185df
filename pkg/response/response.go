package response

// Envelope is the uniform result shape every core operation returns.
type Envelope struct {
	Code    int         `json:"code"`    // HTTP-like status code
	Status  string      `json:"status"`  // "success" or "error"
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	LastID  *uint       `json:"last_id"`
}

// Success returns a success envelope wrapping the data.
func Success(code int, message string, data interface{}) Envelope {
	return Envelope{
		Code:    code,
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

// Created returns a 201 envelope carrying the new record and its id.
func Created(message string, data interface{}, lastID uint) Envelope {
	return Envelope{
		Code:    201,
		Status:  "success",
		Message: message,
		Data:    data,
		LastID:  &lastID,
	}
}

// Error returns an error envelope wrapping the failure message.
func Error(code int, message string) Envelope {
	return Envelope{
		Code:    code,
		Status:  "error",
		Message: message,
	}
}
