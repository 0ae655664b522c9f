package response

import (
	"encoding/json"
	"net/http"
)

// Status is the outcome carried in every envelope
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
)

// Response is the JSON envelope written by every endpoint
type Response struct {
	Status  Status      `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success wraps data in a success envelope
func Success(message string, data interface{}) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// Error builds a failure envelope for a client-side problem
func Error(message string) Response {
	return Response{
		Status:  StatusFail,
		Message: message,
	}
}

// ErrorWithCode is Error plus a machine readable code such as "rate_limited"
func ErrorWithCode(code, message string) Response {
	r := Error(message)
	r.Code = code
	return r
}

// ServerError builds an envelope for failures on our side or upstream
func ServerError(code, message string) Response {
	return Response{
		Status:  StatusError,
		Message: message,
		Code:    code,
	}
}

// JSON writes payload with the given status code
func JSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
