package query

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

// ListFilter reads type, start_date and end_date from the query string.
// Dates use YYYY-MM-DD and end_date covers the whole day.
func ListFilter(r *http.Request) (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	q := r.URL.Query()

	if s := q.Get("type"); s != "" {
		typ := transaction.Type(s)
		if !typ.Valid() {
			return filter, fmt.Errorf("invalid type %q", s)
		}

		filter.Type = &typ
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date %q", s)
		}

		filter.StartDate = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date %q", s)
		}

		filter.EndDate = new(t.Add(24*time.Hour - time.Nanosecond))
	}

	return filter, nil
}
