package tasks

import (
	"fmt"
)

// ErrorKind classifies why a fetch failed.
type ErrorKind int

const (
	// KindOther covers failures outside the classes below.
	KindOther ErrorKind = iota
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindNetwork means the server could not be reached (refused, DNS, timeout).
	KindNetwork
	// KindDecode means the response body was not valid JSON.
	KindDecode
)

// String returns the kind name used in logs and metrics.
func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	default:
		return "other"
	}
}

// FetchError is the error returned by FetchTasks.
type FetchError struct {
	Kind ErrorKind

	// StatusCode and Reason are set for KindHTTP.
	StatusCode int
	// Reason is the status text for KindHTTP and the underlying cause for KindNetwork.
	Reason string

	Err error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("http error: %d %s", e.StatusCode, e.Reason)
	case KindNetwork:
		return fmt.Sprintf("network error: %s", e.Reason)
	case KindDecode:
		if e.Err != nil {
			return fmt.Sprintf("invalid json response: %v", e.Err)
		}
		return "invalid json response"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "unexpected error"
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message returns the text the task API tooling has always shown operators for
// this failure. Network failures carry a second line built from hint.
func (e *FetchError) Message(hint string) string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("ERROR HTTP: %d - %s", e.StatusCode, e.Reason)
	case KindNetwork:
		return fmt.Sprintf("ERROR de red: %s\n   Asegúrate de que la API esté corriendo en %s", e.Reason, hint)
	case KindDecode:
		return "ERROR: Respuesta JSON inválida de la API"
	default:
		return fmt.Sprintf("ERROR inesperado: %s", e.Error())
	}
}
