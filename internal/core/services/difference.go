package services

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// Difference returns the first path at which two documents differ, or ""
// when they are equal. Empty and absent collections compare equal.
func Difference(a, b *domain.Document) string {
	var r firstDifference
	cmp.Equal(a, b, cmpopts.EquateEmpty(), cmp.Reporter(&r))
	if !r.found {
		return ""
	}
	if r.path == "" {
		return "document"
	}
	return r.path
}

// firstDifference is a cmp.Reporter that remembers the first unequal leaf.
type firstDifference struct {
	steps []cmp.PathStep
	found bool
	path  string
}

func (r *firstDifference) PushStep(ps cmp.PathStep) {
	r.steps = append(r.steps, ps)
}

func (r *firstDifference) Report(rs cmp.Result) {
	if r.found || rs.Equal() {
		return
	}
	r.found = true
	r.path = render(r.steps)
}

func (r *firstDifference) PopStep() {
	r.steps = r.steps[:len(r.steps)-1]
}

func render(steps []cmp.PathStep) string {
	var b strings.Builder
	for _, ps := range steps {
		switch s := ps.(type) {
		case cmp.StructField:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Name())
		case cmp.MapIndex:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, s.Key().Interface())
		case cmp.SliceIndex:
			k, ky := s.SplitKeys()
			if k < 0 {
				k = ky
			}
			fmt.Fprintf(&b, "[%d]", k)
		}
	}
	return b.String()
}
