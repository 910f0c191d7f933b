package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/infrastructure/observability"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

const internalErrorMessage = "internal server error"

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps err to a status code. Errors that are not
// AppErrors, and internal ones, are logged and answered with a generic 500.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusForError(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	respondWithError(w, status, message)
}

func statusForError(err error) (int, string) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, internalErrorMessage
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound, appErr.Message
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeBusinessRule:
		return http.StatusBadRequest, appErr.Message
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict, appErr.Message
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized, appErr.Message
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// decodeJSON reads the request body into dst. Malformed JSON and values of
// the wrong JSON type become validation errors.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperrors.NewValidationError("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return apperrors.NewValidationError("invalid type for field " + typeErr.Field)
		}
		return apperrors.NewValidationError("invalid request body")
	}
	return nil
}

// queryLimit parses a positive limit query parameter, returning 0 when the
// parameter is absent or malformed so services apply their default
func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// parkingLotResponse adds numeric coordinates to a lot for map clients
type parkingLotResponse struct {
	*entities.ParkingLot
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func newParkingLotResponse(lot *entities.ParkingLot) parkingLotResponse {
	loc := lot.Location()
	return parkingLotResponse{ParkingLot: lot, Lat: loc.Latitude, Lng: loc.Longitude}
}

func newParkingLotResponses(lots []*entities.ParkingLot) []parkingLotResponse {
	out := make([]parkingLotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, newParkingLotResponse(lot))
	}
	return out
}
