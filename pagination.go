package bankgate

// PageQuery carries offset pagination parameters for listing endpoints.
type PageQuery struct {
	Page    int `json:"page" query:"page"`
	PerPage int `json:"per_page" query:"per_page"`
}

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
	maxPageSize       = 100
)

// Normalize clamps the query into usable bounds.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = defaultPageNumber
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPageSize
	}
	if q.PerPage > maxPageSize {
		q.PerPage = maxPageSize
	}
	return q
}

// Offset is the row offset for the current page.
func (q PageQuery) Offset() int {
	n := q.Normalize()
	return (n.Page - 1) * n.PerPage
}

// PageCount is the number of pages needed for total rows.
func (q PageQuery) PageCount(total int) int {
	n := q.Normalize()
	if total <= 0 {
		return 0
	}
	return (total + n.PerPage - 1) / n.PerPage
}

// Collection is the paginated listing envelope.
type Collection[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	PagesCount int `json:"pages_count"`
	Total      int `json:"total"`
	Objects    []T `json:"objects"`
}

// NewCollection builds the envelope for one result page.
func NewCollection[T any](q PageQuery, total int, objects []T) Collection[T] {
	n := q.Normalize()
	if objects == nil {
		objects = []T{}
	}
	return Collection[T]{
		Page:       n.Page,
		PerPage:    n.PerPage,
		PagesCount: n.PageCount(total),
		Total:      total,
		Objects:    objects,
	}
}
