// Package generator drives text generation: it builds the prompt, calls the
// completion provider, cleans the answer and retries with a revised prompt
// while denylisted terms keep appearing.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"parsverse/pkg/coerce"
	"parsverse/pkg/config"
	"parsverse/pkg/inference"
	"parsverse/pkg/metrics"
	"parsverse/pkg/policy"
	"parsverse/pkg/prompt"
	"parsverse/pkg/schema"
	"parsverse/pkg/utils"
)

// MaxAttempts bounds the completion calls made for one request.
const MaxAttempts = 3

type Generator struct {
	completer inference.Completer
	mode      policy.Mode
}

func New(cfg config.Config, completer inference.Completer) *Generator {
	return &Generator{completer: completer, mode: cfg.Mode}
}

// Mode is the transliteration mode applied to every result.
func (g *Generator) Mode() policy.Mode { return g.mode }

// Result is a cleaned myth or chronicle.
type Result struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Attempts int             `json:"attempts"`
	Changes  []policy.Change `json:"changes,omitempty"`
}

// PersonaResult is a cleaned persona record.
type PersonaResult struct {
	ID       string         `json:"id"`
	Persona  schema.Persona `json:"persona"`
	Attempts int            `json:"attempts"`
}

func (g *Generator) Myth(ctx context.Context, req schema.MythRequest) (Result, error) {
	return g.narrative(ctx, prompt.TaskMyth, req)
}

func (g *Generator) Chronicle(ctx context.Context, req schema.ChronicleRequest) (Result, error) {
	return g.narrative(ctx, prompt.TaskChronicle, req)
}

func (g *Generator) narrative(ctx context.Context, task prompt.Task, req schema.MythRequest) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	req = req.Normalize()

	p := prompt.Myth(req, g.mode)
	if task == prompt.TaskChronicle {
		p = prompt.Chronicle(req, g.mode)
	}
	maxTokens := prompt.LengthFor(task, req.DetailLevel)

	run := g.start(task, req.Name, req.Region)
	var res Result
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		run.attempt(attempt, p)
		raw, err := g.completer.Complete(ctx, p, prompt.Temperature(task), maxTokens)
		if err != nil {
			return Result{}, run.fail(err)
		}

		cleaned := policy.Clean(raw, g.mode)
		res = Result{ID: run.id, Text: cleaned, Attempts: attempt, Changes: policy.Changes(raw, cleaned)}
		if len(res.Changes) > 0 {
			log.Debug("policy changes", "id", run.id, "attempt", attempt, "changes", res.Changes)
		}
		if run.accept(raw, cleaned) {
			return res, nil
		}
		p = prompt.Revise(p)
	}
	run.degrade()
	return res, nil
}

// Persona generates a persona record. Providers that support JSON mode are
// asked for a JSON object; a provider that rejects the response format is
// asked again without it.
func (g *Generator) Persona(ctx context.Context, req schema.PersonaRequest) (PersonaResult, error) {
	if err := req.Validate(); err != nil {
		return PersonaResult{}, err
	}
	req = req.Normalize()

	p := prompt.Persona(req, g.mode)
	maxTokens := prompt.LengthFor(prompt.TaskPersona, req.DetailLevel)
	jsonMode, _ := g.completer.(inference.SchemaCompleter)

	run := g.start(prompt.TaskPersona, req.Name, req.Region)
	var res PersonaResult
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		run.attempt(attempt, p)

		var raw string
		var err error
		if jsonMode != nil {
			raw, err = jsonMode.CompleteJSON(ctx, p, prompt.Temperature(prompt.TaskPersona), maxTokens)
			if inference.IsResponseFormatUnsupported(err) {
				log.Warn("provider rejected JSON response format, using plain completion", "id", run.id, "error", err)
				jsonMode = nil
			}
		}
		if jsonMode == nil {
			raw, err = g.completer.Complete(ctx, p, prompt.Temperature(prompt.TaskPersona), maxTokens)
		}
		if err != nil {
			return PersonaResult{}, run.fail(err)
		}

		persona, decoded := coerce.Coerce(raw, g.mode)
		if !decoded {
			metrics.PersonaFallbacks.Inc()
		}
		res = PersonaResult{ID: run.id, Persona: persona, Attempts: attempt}
		if run.accept(raw, persona.Text()) {
			return res, nil
		}
		p = prompt.Revise(p)
	}
	run.degrade()
	return res, nil
}

// run carries the logging and metrics state of one generation.
type run struct {
	id      string
	task    prompt.Task
	started time.Time
	tries   int
}

func (g *Generator) start(task prompt.Task, name, region string) *run {
	r := &run{id: ksuid.New().String(), task: task, started: time.Now()}
	log.Info("generation started", "id", r.id, "task", task, "name", name, "region", region, "mode", g.mode)
	return r
}

func (r *run) attempt(n int, p string) {
	r.tries = n
	if log.GetLevel() > log.DebugLevel {
		return
	}
	tokens, err := utils.NumTokens(p)
	if err != nil {
		log.Debug("attempt", "id", r.id, "task", r.task, "attempt", n, "prompt_chars", len(p))
		return
	}
	metrics.PromptTokens.WithLabelValues(string(r.task)).Observe(float64(tokens))
	log.Debug("attempt", "id", r.id, "task", r.task, "attempt", n, "prompt_tokens", tokens)
}

// accept reports whether a cleaned answer can be returned. Detection runs on
// the raw answer as well, since cleaning always removes what it detects.
func (r *run) accept(raw, cleaned string) bool {
	found := policy.FindBanned(raw)
	for _, term := range found {
		metrics.PolicyViolations.WithLabelValues(string(r.task), term).Inc()
	}
	if len(found) == 0 && !policy.ContainsBanned(cleaned) {
		r.finish("clean")
		return true
	}
	log.Debug("denylisted terms in answer, revising prompt", "id", r.id, "attempt", r.tries, "terms", found)
	return false
}

func (r *run) degrade() {
	log.Warn("denylisted terms persisted, returning last cleaned answer", "id", r.id, "task", r.task, "attempts", r.tries)
	r.finish("degraded")
}

func (r *run) fail(err error) error {
	log.Error("generation failed", "id", r.id, "task", r.task, "attempt", r.tries, "error", err)
	r.finish("error")
	return fmt.Errorf("%s generation: %w", r.task, err)
}

func (r *run) finish(outcome string) {
	task := string(r.task)
	metrics.GenerationTotal.WithLabelValues(task, outcome).Inc()
	metrics.GenerationAttempts.WithLabelValues(task).Observe(float64(r.tries))
	metrics.GenerationDuration.WithLabelValues(task).Observe(time.Since(r.started).Seconds())
	log.Info("generation finished", "id", r.id, "task", task, "outcome", outcome, "attempts", r.tries)
}
