package response

import (
	"time"

	"github.com/hrcadm/sleeptracker/internal"
)

// Envelope is the uniform shape every HTTP response uses.
type Envelope struct {
	Status    int         `json:"status"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

func New(status int, success bool, message string, data, errDetail interface{}) Envelope {
	return Envelope{
		Status:    status,
		Success:   success,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
		Error:     errDetail,
	}
}

func Success(status int, message string, data interface{}) Envelope {
	return New(status, true, message, data, nil)
}

func Error(status int, message string, errDetail interface{}) Envelope {
	return New(status, false, message, nil, errDetail)
}

// FromAppError renders a tagged error as an envelope.
func FromAppError(e *internal.AppError) Envelope {
	var detail interface{}
	if len(e.Fields) > 0 {
		detail = e.Fields
	}
	return Error(e.Status(), e.Message, detail)
}

func Unauthorized(message string) Envelope {
	return Error(401, message, nil)
}

func NotFound(message string) Envelope {
	return Error(404, message, nil)
}
