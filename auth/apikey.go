package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/ritlepage/backend/httpjson"
	"github.com/ritlepage/backend/srvcerror"
)

const ApiKeyHeader = "x-api-key"

const ErrCodeUnauthorized = "unauthorized"

func newErrUnauthorized() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnauthorized,
		"unauthorized",
	).SetHttpStatusCode(http.StatusUnauthorized)
}

// GetApiKeyMiddleware rejects requests whose x-api-key header does not
// match key. An empty key lets every request through.
func GetApiKeyMiddleware(key string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		hfn := func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(ApiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				httpjson.HandleError(httplog.LogEntry(r.Context()), w, newErrUnauthorized())
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
