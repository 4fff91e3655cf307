package vselect

// Test doubles for the store collaborator. The real reference store lives
// in the state package, which imports this one; engine tests use these
// fakes so failures can be injected and listener churn observed directly.

type fakeObj struct {
	fields map[string]any
}

func newFakeObj(fields map[string]any) *fakeObj {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &fakeObj{fields: fields}
}

type fakeList struct {
	items []any
}

type fakeStore struct {
	listeners map[any]map[string]map[int]func()
	nextID    int

	opened    int
	cancelled int

	// failKeys injects SubscribeKey failures per key.
	failKeys map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		listeners: make(map[any]map[string]map[int]func()),
		failKeys:  make(map[string]error),
	}
}

func (s *fakeStore) Get(obj any, key string) (any, bool) {
	if o, ok := obj.(*fakeObj); ok {
		v, ok := o.fields[key]
		return v, ok
	}
	return nil, false
}

func (s *fakeStore) Index(obj any, i int) any {
	if l, ok := obj.(*fakeList); ok && i >= 0 && i < len(l.items) {
		return l.items[i]
	}
	return nil
}

func (s *fakeStore) Len(obj any) int {
	if l, ok := obj.(*fakeList); ok {
		return len(l.items)
	}
	return 0
}

func (s *fakeStore) SubscribeKey(obj any, key string, fn func()) (CancelFunc, error) {
	if err := s.failKeys[key]; err != nil {
		return nil, err
	}
	keyed, ok := s.listeners[obj]
	if !ok {
		keyed = make(map[string]map[int]func())
		s.listeners[obj] = keyed
	}
	byID, ok := keyed[key]
	if !ok {
		byID = make(map[int]func())
		keyed[key] = byID
	}
	s.nextID++
	id := s.nextID
	byID[id] = fn
	s.opened++

	done := false
	return func() {
		if done {
			return
		}
		done = true
		s.cancelled++
		delete(byID, id)
	}, nil
}

func (s *fakeStore) IsObservable(v any) bool {
	switch v.(type) {
	case *fakeObj, *fakeList:
		return true
	default:
		return false
	}
}

func (s *fakeStore) Snapshot(v any) any {
	if o, ok := v.(*fakeObj); ok {
		m := make(map[string]any, len(o.fields))
		for k, val := range o.fields {
			m[k] = val
		}
		return m
	}
	return v
}

// set mutates obj[key] and fires that key's listeners, the way the real
// store delivers change notifications.
func (s *fakeStore) set(obj *fakeObj, key string, v any) {
	obj.fields[key] = v
	var fns []func()
	for _, fn := range s.listeners[obj][key] {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

// listenerCount returns the number of live listeners on (obj, key).
func (s *fakeStore) listenerCount(obj any, key string) int {
	return len(s.listeners[obj][key])
}

// liveListeners returns the total number of live listeners.
func (s *fakeStore) liveListeners() int {
	n := 0
	for _, keyed := range s.listeners {
		for _, byID := range keyed {
			n += len(byID)
		}
	}
	return n
}
