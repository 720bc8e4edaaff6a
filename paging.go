package spacedock

const (
	// DefaultPageSize is the default number of results returned by list operations.
	DefaultPageSize = 20

	// MaxPageSize is the max number of results returned by list operations.
	MaxPageSize = 100
)

// FindOptions represents options passed to all find methods with multiple results.
// The window of results returned is [Page*Limit, Page*Limit+Limit).
type FindOptions struct {
	Limit int
	Page  int
}

// DefaultFindOptions returns find options with the default limit and first page.
func DefaultFindOptions() FindOptions {
	return FindOptions{Limit: DefaultPageSize}
}
