package middleware

import (
	"errors"
	"net/http"
	"strconv"
)

// HeaderAuthenticator trusts identity headers set by the host's gateway.
// X-User-Id carries the acting user, X-Admin marks operators. Only usable
// behind a gateway that strips these headers from external traffic.
type HeaderAuthenticator struct{}

func (HeaderAuthenticator) Authenticate(r *http.Request) (Principal, error) {
	raw := r.Header.Get("X-User-Id")
	if raw == "" {
		return Principal{}, errors.New("missing X-User-Id header")
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return Principal{}, errors.New("invalid X-User-Id header")
	}
	admin := r.Header.Get("X-Admin") == "true" || r.Header.Get("X-Admin") == "1"
	return Principal{UserID: userID, Admin: admin}, nil
}
