package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"unires/shared/constant"
	"unires/shared/failure"
)

const internalErrorMessage = "internal server error"

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the body of every failed request. Reason is the machine-readable
// failure kind and Refs lists related record ids, e.g. the bookings behind a
// conflict.
type Error struct {
	Error  *string  `json:"error,omitempty"`
	Reason string   `json:"reason,omitempty"`
	Refs   []string `json:"refs,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError renders err with the status its failure carries. Errors that
// were never classified are logged and answered with a generic 500 so
// driver and query text stay server side.
func WithError(writer http.ResponseWriter, err error) {
	var classified *failure.Failure
	if !errors.As(err, &classified) {
		log.Error().Err(err).Msg("unclassified error reached the response writer")

		msg := internalErrorMessage
		write(writer, http.StatusInternalServerError, Error{Error: &msg})

		return
	}

	msg := err.Error()

	write(writer, failure.GetCode(err), Error{
		Error:  &msg,
		Reason: string(failure.GetReason(err)),
		Refs:   failure.GetRefs(err),
	})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown answers health checks once draining has started.
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Int("status", code).Msg("failed to encode response")
		http.Error(writer, internalErrorMessage, http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
