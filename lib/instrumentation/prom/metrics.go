package prom

import (
	"gfx.cafe/open/gotoprom"
	"github.com/prometheus/client_golang/prometheus"
)

type RunLabels struct {
	Format string `label:"format"`
}

func (s *RunLabels) ToCommand(command string) CommandLabels {
	return CommandLabels{
		Format:  s.Format,
		Command: command,
	}
}

type CommandLabels struct {
	Format  string `label:"format"`
	Command string `label:"command"`
}

func (s *CommandLabels) ToFailure(reason string) FailureLabels {
	return FailureLabels{
		Command: s.Command,
		Reason:  reason,
	}
}

type FailureLabels struct {
	Command string `label:"command"`
	Reason  string `label:"reason"`
}

var Run struct {
	Started  func(RunLabels) prometheus.Counter   `name:"started" help:"scripts started"`
	Finished func(RunLabels) prometheus.Counter   `name:"finished" help:"scripts run to completion"`
	Duration func(RunLabels) prometheus.Histogram `name:"duration_ms" buckets:"0.01,0.05,0.1,0.5,1,5,10,50,100,500,1000,5000" help:"ms to run a script"`
}

var Ring struct {
	Commands func(CommandLabels) prometheus.Counter `name:"commands" help:"commands dispatched to the ring"`
	Failures func(FailureLabels) prometheus.Counter `name:"failures" help:"commands that failed"`
	Length   func(RunLabels) prometheus.Gauge       `name:"length" help:"occupied cells after the last command"`
}

func init() {
	gotoprom.MustInit(&Run, "deck_run", prometheus.Labels{})
	gotoprom.MustInit(&Ring, "deck_ring", prometheus.Labels{})
}
