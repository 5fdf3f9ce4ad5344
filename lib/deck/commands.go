package deck

import (
	"strconv"

	"gfx.cafe/gfx/deck/lib/util/cmux"
	"gfx.cafe/gfx/deck/lib/util/ring"
)

type result struct {
	value string
	emit  bool
	err   error
}

func value(v string, err error) result {
	if err != nil {
		return result{err: err}
	}
	return result{value: v, emit: true}
}

func none(err error) result {
	return result{err: err}
}

type command struct {
	name  string
	arity int
	fn    func(r *ring.Ring[string], args []string) result
}

var commands = []command{
	{"push_back", 1, func(r *ring.Ring[string], args []string) result {
		return none(r.PushBack(args[0]))
	}},
	{"push_front", 1, func(r *ring.Ring[string], args []string) result {
		return none(r.PushFront(args[0]))
	}},
	{"pop_back", 0, func(r *ring.Ring[string], _ []string) result {
		return value(r.PopBack())
	}},
	{"pop_front", 0, func(r *ring.Ring[string], _ []string) result {
		return value(r.PopFront())
	}},
	{"get_back", 0, func(r *ring.Ring[string], _ []string) result {
		return value(r.Back())
	}},
	{"get_front", 0, func(r *ring.Ring[string], _ []string) result {
		return value(r.Front())
	}},
	{"size", 0, func(r *ring.Ring[string], _ []string) result {
		return value(strconv.Itoa(r.Length()), nil)
	}},
	{"capacity", 0, func(r *ring.Ring[string], _ []string) result {
		return value(strconv.Itoa(r.Capacity()), nil)
	}},
	{"clear", 0, func(r *ring.Ring[string], _ []string) result {
		r.Clear()
		return none(nil)
	}},
}

var (
	table   = cmux.NewMapMux[*ring.Ring[string], result]()
	arities = make(map[string]int)
)

func init() {
	for _, c := range commands {
		table.Register([]string{c.name}, c.fn)
		arities[c.name] = c.arity
	}
}

// Commands lists the command names a script may use.
func Commands() []string {
	return table.Names()
}
