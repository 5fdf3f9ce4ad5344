package prom

import (
	"gfx.cafe/open/gotoprom"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	gotoprom.MustInit(&Calc, "deck_calc", make(prometheus.Labels))
}

type CalcLabels struct {
	Notation string `label:"notation"`
}

func (s *CalcLabels) ToFailure(reason string) CalcFailureLabels {
	return CalcFailureLabels{
		Notation: s.Notation,
		Reason:   reason,
	}
}

type CalcFailureLabels struct {
	Notation string `label:"notation"`
	Reason   string `label:"reason"`
}

var Calc struct {
	Evaluations func(CalcLabels) prometheus.Counter        `name:"evaluations" help:"expressions evaluated"`
	Failures    func(CalcFailureLabels) prometheus.Counter `name:"failures" help:"expressions that failed to evaluate"`
	Tokens      func(CalcLabels) prometheus.Histogram      `name:"tokens" buckets:"1,3,5,10,25,50,100,500,1000" help:"tokens per expression"`
}
