package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var notFoundMessages = map[string]string{
	"customerID": "Customer not found",
	"expenseID":  "Expense not found",
	"registryID": "Bond registry not found",
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}

// ValidateUUIDPathParams rejects requests whose named path values are missing or not UUIDs
// before they reach a handler. Malformed ids of known resources answer 404 like missing rows do.
func ValidateUUIDPathParams(
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]map[string]string),
	params ...string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, param := range params {
				value := r.PathValue(param)
				if value == "" {
					log.Printf("[Path_Middleware] %s is empty", param)
					respondError(w, http.StatusBadRequest, capitalizeFirstLetter(param+" is required"))
					return
				}

				if _, err := uuid.Parse(value); err != nil {
					log.Printf("[Path_Middleware] %s is invalid", param)
					if msg, ok := notFoundMessages[param]; ok {
						respondError(w, http.StatusNotFound, msg)
						return
					}
					respondError(w, http.StatusBadRequest, "Invalid "+param+" format")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
