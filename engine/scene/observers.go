package scene

// observers is a synchronous subscriber list. Everything runs on the frame loop,
// so notification is a plain loop with no locking.
type observers[T any] struct {
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func (o *observers[T]) add(fn func(T)) func() {
	o.next++
	id := o.next
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})
	return func() { o.remove(id) }
}

func (o *observers[T]) remove(id int) {
	for i := range o.subs {
		if o.subs[i].id == id {
			copy(o.subs[i:], o.subs[i+1:])
			o.subs[len(o.subs)-1] = subscriber[T]{}
			o.subs = o.subs[:len(o.subs)-1]
			return
		}
	}
}

func (o *observers[T]) notify(v T) {
	for _, s := range o.subs {
		s.fn(v)
	}
}
