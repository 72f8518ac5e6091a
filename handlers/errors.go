package handlers

import (
	"errors"
	"net/http"

	"reservo/services/reservation"
	"reservo/utils"

	"github.com/gin-gonic/gin"
)

var statusByCode = map[reservation.Code]int{
	reservation.CodeNotFound:                 http.StatusNotFound,
	reservation.CodeInvalidRequest:           http.StatusBadRequest,
	reservation.CodeUnauthorized:             http.StatusForbidden,
	reservation.CodeCapacityExceeded:         http.StatusConflict,
	reservation.CodeAlreadyCancelled:         http.StatusConflict,
	reservation.CodeCancellationWindowClosed: http.StatusUnprocessableEntity,
	reservation.CodeVerificationFailed:       http.StatusPaymentRequired,
	reservation.CodeCommitFailed:             http.StatusServiceUnavailable,
}

// respondError writes an engine error. Unknown errors become a bare 500.
func respondError(c *gin.Context, err error) {
	var re *reservation.Error
	if !errors.As(err, &re) {
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	status, ok := statusByCode[re.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if re.Code == reservation.CodeCommitFailed {
		c.Header("Retry-After", "1")
	}
	// Key is the offending date or slot; verification failures never carry
	// details.
	utils.JSONCodedError(c, status, string(re.Code), re.Message, re.Key)
}

func badRequest(c *gin.Context, err error) {
	utils.JSONCodedError(c, http.StatusBadRequest, string(reservation.CodeInvalidRequest), "Invalid request", err.Error())
}
