package handler

import (
	"errors"
	"net/http"

	"github.com/deepbluepool/poolchem/internal/api/models"
	"github.com/deepbluepool/poolchem/internal/api/response"
	"github.com/deepbluepool/poolchem/internal/chemistry"
	"github.com/deepbluepool/poolchem/internal/history"
	"github.com/deepbluepool/poolchem/internal/safety"
)

// writeError maps domain errors to Problem+JSON responses. Unrecognized
// errors become opaque 500s so internals never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *chemistry.ValidationError
	if errors.As(err, &validation) {
		response.BadRequest(w, r, validation.Error(), fieldErrors(validation.Errors))
		return
	}

	switch {
	case errors.Is(err, chemistry.ErrUnknownParameter):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.Is(err, safety.ErrInvalidChemical):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.Is(err, safety.ErrChemicalNotFound),
		errors.Is(err, history.ErrReadingNotFound):
		response.NotFound(w, r, err.Error())
	case errors.Is(err, history.ErrTrendDisabled):
		// Disabled features are indistinguishable from absent ones
		response.NotFound(w, r, err.Error())
	case errors.Is(err, safety.ErrReadOnly), errors.Is(err, history.ErrReadOnly):
		response.Conflict(w, r, err.Error())
	case errors.Is(err, safety.ErrProviderUnavailable):
		response.ServiceUnavailable(w, r, err.Error())
	default:
		response.InternalError(w, r, "an unexpected error occurred")
	}
}

// fieldErrors converts engine validation details to the wire shape.
func fieldErrors(in []chemistry.FieldError) []models.FieldError {
	out := make([]models.FieldError, 0, len(in))
	for _, fe := range in {
		out = append(out, models.FieldError{
			Field:   fe.Field,
			Message: fe.Message,
			Code:    fe.Code,
		})
	}
	return out
}
