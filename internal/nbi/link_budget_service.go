// internal/nbi/link_budget_service.go
package nbi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/linkbudget/core"
	"github.com/signalsfoundry/linkbudget/internal/logging"
	"github.com/signalsfoundry/linkbudget/internal/observability"
	"github.com/signalsfoundry/linkbudget/model"
)

// Evaluation is the response shape of Evaluate and EvaluateScenario.
type Evaluation struct {
	Scenario string       `json:"scenario,omitempty"`
	Results  core.Results `json:"results"`
	Closes   bool         `json:"closes"`
	Quality  string       `json:"quality"`
}

// ScenarioSummary is one entry of ListScenarios.
type ScenarioSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LinkBudgetService implements LinkBudgetServiceServer.
//
// Semantics:
//   - Evaluate runs a scenario carried in the request on a fresh engine.
//   - EvaluateScenario runs a scenario from the server's catalogue by name.
//   - ListScenarios lists the catalogue in file order.
//
// Each call owns its engine, so the service is safe for concurrent use.
// The catalogue is read-only after construction.
type LinkBudgetService struct {
	catalogue *model.ScenarioSet
	log       logging.Logger
	metrics   *observability.EvaluationCollector
	engineOpt []core.Option
}

// ServiceOption customises a LinkBudgetService.
type ServiceOption func(*LinkBudgetService)

// WithEvaluationMetrics records every evaluation on c.
func WithEvaluationMetrics(c *observability.EvaluationCollector) ServiceOption {
	return func(s *LinkBudgetService) { s.metrics = c }
}

// WithEngineOptions passes opts to every engine the service builds.
func WithEngineOptions(opts ...core.Option) ServiceOption {
	return func(s *LinkBudgetService) { s.engineOpt = append(s.engineOpt, opts...) }
}

// NewLinkBudgetService constructs a service bound to a scenario catalogue.
// A nil catalogue serves Evaluate only.
func NewLinkBudgetService(catalogue *model.ScenarioSet, log logging.Logger, opts ...ServiceOption) *LinkBudgetService {
	if catalogue == nil {
		catalogue = &model.ScenarioSet{}
	}
	if log == nil {
		log = logging.Noop()
	}
	s := &LinkBudgetService{catalogue: catalogue, log: log}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Evaluate runs the scenario carried in req.
func (s *LinkBudgetService) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, ToStatusError(fmt.Errorf("%w: empty request", ErrInvalidRequest))
	}
	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, ToStatusError(fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}
	var sc model.Scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, ToStatusError(fmt.Errorf("%w: %w", ErrInvalidRequest, err))
	}
	return s.evaluate(ctx, &sc)
}

// EvaluateScenario runs the catalogue scenario named by req.name.
func (s *LinkBudgetService) EvaluateScenario(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := strings.TrimSpace(req.GetFields()["name"].GetStringValue())
	if name == "" {
		return nil, ToStatusError(fmt.Errorf("%w: name is required", ErrInvalidRequest))
	}
	sc := s.catalogue.Find(name)
	if sc == nil {
		return nil, ToStatusError(fmt.Errorf("%w: scenario %q", ErrNotFound, name))
	}
	return s.evaluate(ctx, sc)
}

// ListScenarios returns the catalogue names and descriptions.
func (s *LinkBudgetService) ListScenarios(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out := struct {
		Scenarios []ScenarioSummary `json:"scenarios"`
	}{Scenarios: make([]ScenarioSummary, 0, len(s.catalogue.Scenarios))}
	for _, sc := range s.catalogue.Scenarios {
		if sc == nil {
			continue
		}
		out.Scenarios = append(out.Scenarios, ScenarioSummary{Name: sc.Name, Description: sc.Description})
	}
	return toStruct(out)
}

func (s *LinkBudgetService) evaluate(ctx context.Context, sc *model.Scenario) (*structpb.Struct, error) {
	log := s.requestLogger(ctx).With(logging.String("scenario", sc.Name))

	ctx, span := StartChildSpan(ctx, "engine.Run", "scenario", sc.Name)
	defer span.End()

	e := core.NewEngine(s.engineOpt...)
	if err := core.ConfigureEngine(e, sc); err != nil {
		s.metrics.ObserveEvaluation(core.Results{}, err, 0)
		log.Warn(ctx, "scenario rejected", logging.Err(err))
		span.RecordError(err)
		return nil, ToStatusError(err)
	}

	start := time.Now()
	err := e.Run(observability.TracingObserver(span), observability.LogObserver(ctx, log))
	s.metrics.ObserveEvaluation(e.Results(), err, time.Since(start))
	if err != nil {
		log.Info(ctx, "evaluation failed", logging.String("outcome", observability.Outcome(err)), logging.Err(err))
		span.RecordError(err)
		return nil, ToStatusError(err)
	}

	res := e.Results()
	span.SetAttributes(
		attribute.Float64("link_margin_db", res.LinkMargin),
		attribute.Bool("link_closes", res.Closes()),
	)
	log.Info(ctx, "evaluated",
		logging.Float64("link_margin_db", res.LinkMargin),
		logging.String("quality", res.Quality().String()),
	)

	return toStruct(Evaluation{
		Scenario: sc.Name,
		Results:  res,
		Closes:   res.Closes(),
		Quality:  res.Quality().String(),
	})
}

func (s *LinkBudgetService) requestLogger(ctx context.Context) logging.Logger {
	if l := logging.LoggerFromContext(ctx); l != nil {
		return l
	}
	return s.log
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, ToStatusError(err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}
