package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
)

// Stage is one named step of the HTTP pipeline
type Stage struct {
	Name string
	Func echo.MiddlewareFunc
}

// Pipeline is the ordered middleware chain applied to the router. The order
// of the stages slice is the order requests traverse them; there is no other
// place that decides sequencing.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// NewPipeline creates an empty pipeline
func NewPipeline(logger *slog.Logger) *Pipeline {
	return &Pipeline{logger: logger.With("component", "pipeline")}
}

// Append adds a named stage to the end of the pipeline
func (p *Pipeline) Append(name string, fn echo.MiddlewareFunc) *Pipeline {
	p.stages = append(p.stages, Stage{Name: name, Func: fn})
	return p
}

// Apply registers every stage on the router in declared order
func (p *Pipeline) Apply(e *echo.Echo) {
	for _, stage := range p.stages {
		e.Use(stage.Func)
	}
	p.logger.Info("pipeline applied", "stages", p.StageNames())
}

// StageNames returns the stage names in traversal order
func (p *Pipeline) StageNames() []string {
	names := make([]string, 0, len(p.stages))
	for _, stage := range p.stages {
		names = append(names, stage.Name)
	}
	return names
}
