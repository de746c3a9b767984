package repokit

import (
	"testing"

	"taxintake/internal/platform/testkit"
)

type repo struct{ q Queryer }

func TestMustBind(t *testing.T) {
	b := BindFunc[repo](func(q Queryer) repo { return repo{q: q} })

	testkit.MustPanic(t, func() { _ = MustBind[repo](b, nil) })

	var q Queryer = fakeQ{}
	if got := MustBind[repo](b, q); got.q == nil {
		t.Fatal("queryer not bound")
	}
}
