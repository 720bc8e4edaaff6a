package http

import (
	"net/http"
	"strconv"

	"github.com/spacedock/spacedock"
)

// decodeFindOptions returns a FindOptions decoded from the http request query
// parameters. Invalid input falls back to the defaults rather than erroring;
// list endpoints favor availability over strict validation.
func decodeFindOptions(r *http.Request) spacedock.FindOptions {
	opts := spacedock.DefaultFindOptions()
	qp := r.URL.Query()

	if limit := qp.Get("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err == nil && l > 0 {
			if l > spacedock.MaxPageSize {
				l = spacedock.MaxPageSize
			}
			opts.Limit = l
		}
	}

	if page := qp.Get("page"); page != "" {
		p, err := strconv.Atoi(page)
		if err == nil && p > 0 {
			opts.Page = p
		}
	}

	return opts
}
