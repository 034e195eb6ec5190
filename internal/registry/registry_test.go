package registry

import (
	"testing"

	"github.com/cheekybits/is"

	"github.com/ivlev/svgmotion/internal/anim"
)

func TestNotifyFanOut(t *testing.T) {
	is := is.New(t)
	r := New()

	var first, second [][]string
	r.Subscribe(func(removed []string) { first = append(first, removed) })
	r.Subscribe(func(removed []string) { second = append(second, removed) })

	r.Notify([]string{"box", "grad"})
	is.Equal(len(first), 1)
	is.Equal(len(second), 1)
	is.Equal(first[0], []string{"box", "grad"})

	r.Notify(nil)
	is.Equal(len(first), 1)
}

func TestSubscribeDuringNotify(t *testing.T) {
	is := is.New(t)
	r := New()

	calls := 0
	r.Subscribe(func(removed []string) {
		calls++
		// Late subscribers only see later notifications.
		r.Subscribe(func([]string) { calls += 10 })
	})

	r.Notify([]string{"a"})
	is.Equal(calls, 1)
	r.Notify([]string{"b"})
	is.Equal(calls, 12)
}

func TestDocumentPrunerSubscription(t *testing.T) {
	is := is.New(t)

	rec := anim.NewRecord("fade", anim.KindAttribute)
	rec.Target.ElementID = "box"
	doc := &anim.Document{Animations: []*anim.Record{rec}}

	r := New()
	r.Subscribe(doc.Pruner(nil))

	r.Notify([]string{"box"})
	is.Equal(len(doc.Animations), 0)
}
