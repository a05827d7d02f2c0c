package collection

import (
	"github.com/myposcore/backend/internal/response"
)

// Issue is one example that does not satisfy the envelope contract.
type Issue struct {
	Where    string   `json:"where"`
	Status   int      `json:"status"`
	Problems []string `json:"problems"`
}

// Report summarizes a Check run.
type Report struct {
	Total  int     `json:"total"`
	Valid  int     `json:"valid"`
	Issues []Issue `json:"issues"`
}

// OK reports whether every example passed.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// Check validates every example that has a body.
func Check(d *Document) Report {
	rep := Report{Issues: []Issue{}}
	for _, ex := range d.Examples() {
		if !ex.HasBody {
			continue
		}
		rep.Total++
		if err := response.Validate(ex.Status, []byte(trimBody(ex.Body))); err != nil {
			rep.Issues = append(rep.Issues, Issue{
				Where:    ex.Where,
				Status:   ex.Status,
				Problems: response.Problems(err),
			})
			continue
		}
		rep.Valid++
	}
	return rep
}
