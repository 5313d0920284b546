package ethics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	//nolint:staticcheck // OPA v1 migration pending
	"github.com/open-policy-agent/opa/ast"
	//nolint:staticcheck // OPA v1 migration pending
	"github.com/open-policy-agent/opa/rego"

	"github.com/concordai/concord/pkg/domain"
)

// RegoOptions control construction of the optional OPA-backed evaluator.
type RegoOptions struct {
	// Entrypoint is the policy document path (e.g. "concord/ethics").
	Entrypoint string
	// Modules contains the Rego modules to load, keyed by filename.
	Modules map[string]string
}

const defaultRegoEntrypoint = "concord/ethics"

// RegoEvaluator evaluates actions against Rego-expressed principles using an
// embedded OPA instance. It is never installed by default: the built-in
// ProhibitionMatcher alone defines baseline gate behavior, and this evaluator
// is composed in explicitly by callers that manage principle modules as code.
//
// The entrypoint document must produce an object whose "violations" list
// contains {principle, description, severity} entries. Severities are clamped
// to [0, 1]; missing fields fall back to the built-in defaults.
type RegoEvaluator struct {
	modules       map[string]string
	moduleOrder   []string
	parsedModules map[string]*ast.Module
	entrypoint    string
	queries       map[string]*rego.PreparedEvalQuery
	mu            sync.RWMutex
}

// NewRegoEvaluator parses and compiles the supplied modules, warming the
// entrypoint so syntax errors surface at construction time.
func NewRegoEvaluator(ctx context.Context, opts RegoOptions) (*RegoEvaluator, error) {
	entry := strings.TrimSpace(opts.Entrypoint)
	if entry == "" {
		entry = defaultRegoEntrypoint
	}

	if len(opts.Modules) == 0 {
		return nil, errors.New("rego evaluator requires at least one module")
	}

	moduleCopy := make(map[string]string, len(opts.Modules))
	moduleOrder := make([]string, 0, len(opts.Modules))
	for name, src := range opts.Modules {
		moduleCopy[name] = src
		moduleOrder = append(moduleOrder, name)
	}
	sort.Strings(moduleOrder)

	parsedModules := make(map[string]*ast.Module, len(moduleCopy))
	for _, name := range moduleOrder {
		module, err := ast.ParseModuleWithOpts(name, moduleCopy[name], ast.ParserOptions{RegoVersion: ast.RegoV1})
		if err != nil {
			return nil, fmt.Errorf("parse rego module %q: %w", name, err)
		}
		parsedModules[name] = module
	}

	evaluator := &RegoEvaluator{
		modules:       moduleCopy,
		moduleOrder:   moduleOrder,
		parsedModules: parsedModules,
		entrypoint:    entry,
		queries:       make(map[string]*rego.PreparedEvalQuery),
	}

	if _, err := evaluator.getPreparedQuery(ctx, entry); err != nil {
		return nil, fmt.Errorf("compile rego modules: %w", err)
	}

	return evaluator, nil
}

// Evaluate implements Evaluator. The action, the context environment, and the
// constraint requirements are exposed to the policy as input.
func (e *RegoEvaluator) Evaluate(ctx context.Context, action domain.DomainAction, cc domain.CoordinationContext) ([]domain.EthicalViolation, error) {
	payload := map[string]any{
		"action":       actionToMap(action),
		"environment":  cc.Environment,
		"requirements": stringMapToAny(cc.Constraints.Requirements),
	}

	prepared, err := e.getPreparedQuery(ctx, e.entrypoint)
	if err != nil {
		return nil, fmt.Errorf("prepare query: %w", err)
	}

	results, err := prepared.Eval(ctx, rego.EvalInput(payload))
	if err != nil {
		return nil, fmt.Errorf("opa evaluation: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return nil, nil
	}

	document, ok := results[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("opa evaluation: unexpected result type %T", results[0].Expressions[0].Value)
	}

	return parseViolations(action, document["violations"])
}

func (e *RegoEvaluator) getPreparedQuery(ctx context.Context, entry string) (*rego.PreparedEvalQuery, error) {
	e.mu.RLock()
	if prepared, ok := e.queries[entry]; ok {
		e.mu.RUnlock()
		return prepared, nil
	}
	e.mu.RUnlock()

	query := "data." + strings.ReplaceAll(entry, "/", ".")

	opts := make([]func(*rego.Rego), 0, len(e.parsedModules)+1)
	opts = append(opts, rego.Query(query))
	for _, name := range e.moduleOrder {
		opts = append(opts, rego.ParsedModule(e.parsedModules[name]))
	}

	prepared, err := rego.New(opts...).PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Another goroutine may have already prepared the query; respect first entry.
	if existing, ok := e.queries[entry]; ok {
		return existing, nil
	}

	e.queries[entry] = &prepared
	return &prepared, nil
}

func parseViolations(action domain.DomainAction, value any) ([]domain.EthicalViolation, error) {
	if value == nil {
		return nil, nil
	}

	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("opa evaluation: violations must be a list, got %T", value)
	}

	violations := make([]domain.EthicalViolation, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("opa evaluation: violation entries must be objects, got %T", item)
		}

		violation := domain.EthicalViolation{
			Action:    action,
			Principle: domain.PrincipleNonMaleficence,
			Severity:  ViolationSeverity,
		}
		if principle, ok := entry["principle"].(string); ok && principle != "" {
			violation.Principle = principle
		}
		if description, ok := entry["description"].(string); ok {
			violation.Description = description
		}
		switch severity := entry["severity"].(type) {
		case json.Number:
			if parsed, err := severity.Float64(); err == nil {
				violation.Severity = clampUnit(parsed)
			}
		case float64:
			violation.Severity = clampUnit(severity)
		}

		violations = append(violations, violation)
	}

	return violations, nil
}

func actionToMap(action domain.DomainAction) map[string]any {
	return map[string]any{
		"id":       action.ID,
		"domain":   action.Domain,
		"type":     action.Type,
		"params":   stringMapToAny(action.Params),
		"priority": string(action.Priority),
	}
}

func stringMapToAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
