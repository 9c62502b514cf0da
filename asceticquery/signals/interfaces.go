package signals

type Observer[E any] func(E) error

type Signal[E any] interface {
	Attach(observer Observer[E], observerID ...any) func()
	Detach(observer Observer[E], observerID ...any)
	Notify(event E) error
}
