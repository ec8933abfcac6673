package app

import "sync"

// observers fans a change signal out to subscribed callbacks.
type observers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func()
}

// subscribe registers fn and returns an idempotent cancel func.
func (o *observers) subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = map[int]func(){}
	}
	id := o.nextID
	o.nextID++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

// notify calls every subscriber outside the lock.
func (o *observers) notify() {
	o.mu.Lock()
	fns := make([]func(), 0, len(o.fns))
	for id := 0; id < o.nextID; id++ {
		if fn, ok := o.fns[id]; ok {
			fns = append(fns, fn)
		}
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
