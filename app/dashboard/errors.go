package dashboard

import (
	"errors"
	"net/http"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/errx"
)

// toAppError attaches an HTTP status and a message that is safe to show the operator.
func toAppError(err error) error {
	var appErr *errx.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, profile.ErrProfileNotFound):
		return errx.New(err, http.StatusNotFound, "client not found")
	case errors.Is(err, profile.ErrProfileExists):
		return errx.New(err, http.StatusConflict, "client already exists")
	case errors.Is(err, contractx.ErrValidation), errors.Is(err, profile.ErrInvalidValue):
		return errx.New(err, http.StatusBadRequest, err.Error())
	case errors.Is(err, contractx.ErrModelInvoke), errors.Is(err, contractx.ErrSchemaViolation):
		return errx.New(err, http.StatusBadGateway, "language model request failed, please try again")
	case errors.Is(err, contractx.ErrRemoteMemory):
		return errx.New(err, http.StatusBadGateway, "memory service unavailable")
	default:
		return errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage)
	}
}
