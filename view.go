package vselect

import "strconv"

// lengthKey is the key recorded (and subscribed) for list length reads.
const lengthKey = "length"

// View is the read surface a selector evaluates against. It wraps one
// observable object, forwards every read to the recorder, and lazily
// wraps observable child values in fresh Views as they are reached, so a
// chained read registers an access at every hop.
//
// Wrapping is per-read and never cached: re-reading a key simply wraps the
// value again. A cyclic graph therefore cannot cause unbounded recursion;
// a selector performs a bounded number of reads in one synchronous pass,
// and nothing is wrapped eagerly behind its back.
type View struct {
	store  Store
	target any
	rec    *recorder
}

func newView(store Store, target any, rec *recorder) *View {
	return &View{store: store, target: target, rec: rec}
}

// Target returns the underlying observable object.
func (v *View) Target() any {
	return v.target
}

// Get reads key on the wrapped object. The read is recorded against the
// wrapped object, and the returned value is itself a *View when it is an
// observable object or list. Missing keys return nil.
func (v *View) Get(key string) any {
	v.rec.record(v.target, key)
	val, ok := v.store.Get(v.target, key)
	if !ok {
		return nil
	}
	return v.wrapValue(val)
}

// Obj reads key and returns the nested observable as a *View, or nil when
// the value is absent or not observable.
func (v *View) Obj(key string) *View {
	child, _ := v.Get(key).(*View)
	return child
}

// Index reads the i-th element of the wrapped list. The read is recorded
// under the element's decimal index key.
func (v *View) Index(i int) any {
	v.rec.record(v.target, strconv.Itoa(i))
	return v.wrapValue(v.store.Index(v.target, i))
}

// ObjAt is Index for nested observables.
func (v *View) ObjAt(i int) *View {
	child, _ := v.Index(i).(*View)
	return child
}

// Len reads the wrapped list's length. Recorded like any other key read.
func (v *View) Len() int {
	v.rec.record(v.target, lengthKey)
	return v.store.Len(v.target)
}

// String reads key as a string, returning "" for absent or non-string
// values.
func (v *View) String(key string) string {
	s, _ := v.Get(key).(string)
	return s
}

// Int reads key as an int, returning 0 for absent or non-int values.
func (v *View) Int(key string) int {
	n, _ := v.Get(key).(int)
	return n
}

// Float64 reads key as a float64, returning 0 for absent or non-float
// values.
func (v *View) Float64(key string) float64 {
	f, _ := v.Get(key).(float64)
	return f
}

// Bool reads key as a bool, returning false for absent or non-bool values.
func (v *View) Bool(key string) bool {
	b, _ := v.Get(key).(bool)
	return b
}

func (v *View) wrapValue(val any) any {
	if val == nil {
		return nil
	}
	if v.store.IsObservable(val) {
		return newView(v.store, val, v.rec)
	}
	return val
}
