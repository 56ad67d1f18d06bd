package submission

import (
	"net/http"

	"github.com/ritlepage/backend/srvcerror"
)

const ErrCodeInvalidSubmission = "invalid_submission"

func newErrInvalidSubmission(details map[string]string) *srvcerror.Error {
	err := srvcerror.New(
		ErrCodeInvalidSubmission,
		"submission details are invalid",
	).SetHttpStatusCode(http.StatusBadRequest)
	for field, msg := range details {
		err.AddDetail(field, msg)
	}
	return err
}

// ErrMalformedBody is returned when the request body is not a schema v2
// submission, including when it carries fields of an older schema.
func ErrMalformedBody(cause error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidSubmission,
		"request body is not a valid submission",
	).SetHttpStatusCode(http.StatusBadRequest).
		AddDetail("body", cause.Error()).
		SetDebug(cause)
}
