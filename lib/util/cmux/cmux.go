package cmux

import (
	"slices"
	"strings"
)

// Mux routes a command path to a registered handler. Paths are matched word by word; whatever
// is left over after the longest registered prefix is handed to the handler as its arguments.
type Mux[IN, OUT any] interface {
	Register([]string, func(IN, []string) OUT)
	Match([]string) (args []string, ok bool)
	Call(IN, []string) (OUT, bool)
}

type MapMux[IN, OUT any] struct {
	sub map[string]*MapMux[IN, OUT]
	fn  func(IN, []string) OUT
}

func NewMapMux[IN, OUT any]() *MapMux[IN, OUT] {
	return &MapMux[IN, OUT]{
		sub: make(map[string]*MapMux[IN, OUT]),
	}
}

func (m *MapMux[IN, OUT]) Register(path []string, fn func(IN, []string) OUT) {
	mux := m
	for {
		if len(path) == 0 {
			mux.fn = fn
			return
		}

		var ok bool
		if _, ok = mux.sub[path[0]]; !ok {
			mux.sub[path[0]] = NewMapMux[IN, OUT]()
		}
		mux = mux.sub[path[0]]
		path = path[1:]
	}
}

func (m *MapMux[IN, OUT]) find(path []string) (*MapMux[IN, OUT], []string) {
	mux := m
	for len(path) != 0 {
		sub, ok := mux.sub[path[0]]
		if !ok {
			break
		}
		mux = sub
		path = path[1:]
	}
	return mux, path
}

// Match reports whether path resolves to a handler without calling it.
func (m *MapMux[IN, OUT]) Match(path []string) (args []string, ok bool) {
	mux, args := m.find(path)
	if mux.fn == nil {
		return nil, false
	}
	return args, true
}

func (m *MapMux[IN, OUT]) Call(arg IN, path []string) (o OUT, exists bool) {
	mux, args := m.find(path)
	if mux.fn != nil {
		o = mux.fn(arg, args)
		exists = true
	}
	return
}

// Names lists every registered path, words joined by a space, sorted.
func (m *MapMux[IN, OUT]) Names() []string {
	var names []string
	m.walk(nil, func(path []string) {
		names = append(names, strings.Join(path, " "))
	})
	slices.Sort(names)
	return names
}

func (m *MapMux[IN, OUT]) walk(prefix []string, fn func([]string)) {
	if m.fn != nil && len(prefix) != 0 {
		fn(prefix)
	}
	for name, sub := range m.sub {
		sub.walk(append(slices.Clip(prefix), name), fn)
	}
}

var _ Mux[any, error] = (*MapMux[any, error])(nil)
