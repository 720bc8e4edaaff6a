package http

import (
	"fmt"
	"net/http"
)

// HealthHandler returns the health of the process. It is registered as a
// no-auth route so load balancers can probe without a credential.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	const resp = `{"name":"spacedock","message":"ready for queries and writes","status":"pass","checks":[]}`
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, resp)
}
