package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// actor returns the authenticated caller, writing a 401 when there is none.
func actor(w http.ResponseWriter, r *http.Request) (jwt.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return jwt.Claims{}, false
	}
	return claims, true
}

// decodeJSON reads the request body into dst, writing a 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		slog.Debug("request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// dateQuery parses an optional YYYY-MM-DD query parameter.
func dateQuery(r *http.Request, key string, errs *validator.ValidationErrors) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	d, ok := validator.IsValidDate(v)
	if !ok {
		errs.Add(key, key+" must be in YYYY-MM-DD format")
		return nil
	}
	return &d
}

// timeQuery parses an optional query parameter given as YYYY-MM-DD or as an RFC3339 timestamp.
// A bare date used as an upper bound covers the whole day.
func timeQuery(r *http.Request, key string, upper bool, errs *validator.ValidationErrors) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	if d, ok := validator.IsValidDate(v); ok {
		if upper {
			d = d.AddDate(0, 0, 1)
		}
		return &d
	}
	if t, ok := validator.IsValidDateTime(v); ok {
		return &t
	}
	errs.Add(key, key+" must be YYYY-MM-DD or an RFC3339 timestamp")
	return nil
}

// scopedEmployeeID lets managers act on any employee and pins everyone else to themselves.
func scopedEmployeeID(claims jwt.Claims, requested *string) (*string, bool) {
	if claims.Role.CanManage() {
		return requested, true
	}
	if requested != nil && *requested != claims.EmployeeID {
		return nil, false
	}
	self := claims.EmployeeID
	return &self, true
}
