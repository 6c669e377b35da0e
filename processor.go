package locality

import (
	"context"
	"fmt"
)

// Turn is one outgoing chat turn. Text is the copy sent to the model;
// VisibleText is what the user sees in the transcript.
type Turn struct {
	ID          string         `json:"id,omitempty"`
	Text        string         `json:"text"`
	VisibleText string         `json:"visible_text"`
	State       map[string]any `json:"state,omitempty"`
}

// TurnProcessor runs before a turn is sent to the model.
// Implementations may rewrite t.Text or return an error to stop the chain.
// Must be safe for concurrent use.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, t *Turn) error
}

// TurnProcessorFunc adapts a function to TurnProcessor.
type TurnProcessorFunc func(ctx context.Context, t *Turn) error

// ProcessTurn implements TurnProcessor.
func (f TurnProcessorFunc) ProcessTurn(ctx context.Context, t *Turn) error { return f(ctx, t) }

// ProcessorChain holds an ordered list of processors.
type ProcessorChain struct {
	processors []TurnProcessor
}

// NewProcessorChain creates a chain from ps.
func NewProcessorChain(ps ...TurnProcessor) *ProcessorChain {
	c := &ProcessorChain{}
	for _, p := range ps {
		c.Add(p)
	}
	return c
}

// Add appends a processor to the chain. Panics on nil.
func (c *ProcessorChain) Add(p TurnProcessor) {
	if p == nil {
		panic("locality: nil TurnProcessor")
	}
	c.processors = append(c.processors, p)
}

// Run runs every processor in registration order.
// Stops and returns the first non-nil error.
func (c *ProcessorChain) Run(ctx context.Context, t *Turn) error {
	for _, p := range c.processors {
		if err := p.ProcessTurn(ctx, t); err != nil {
			return fmt.Errorf("processor %T: %w", p, err)
		}
	}
	return nil
}

// Len returns the number of registered processors.
func (c *ProcessorChain) Len() int { return len(c.processors) }

// SettingsSource supplies the settings in effect for a turn.
// *Manager satisfies it.
type SettingsSource interface {
	Snapshot() Settings
}

// Injector is the TurnProcessor that appends the locality annotation.
// VisibleText is never touched.
type Injector struct {
	settings  SettingsSource
	annotator *Annotator
}

// NewInjector creates an Injector reading settings from src on every turn.
func NewInjector(src SettingsSource, a *Annotator) *Injector {
	return &Injector{settings: src, annotator: a}
}

// ProcessTurn implements TurnProcessor.
func (i *Injector) ProcessTurn(ctx context.Context, t *Turn) error {
	t.Text, t.VisibleText = i.annotator.Modify(ctx, i.settings.Snapshot(), t.Text, t.VisibleText)
	return nil
}

// ChatInputModifier is the host hook: it receives the outgoing text, the
// visible text and the conversation state, and returns the modified
// outgoing text with the visible text unchanged.
func (i *Injector) ChatInputModifier(ctx context.Context, text, visible string, state map[string]any) (string, string) {
	t := Turn{ID: NewID(), Text: text, VisibleText: visible, State: state}
	_ = i.ProcessTurn(ctx, &t)
	return t.Text, visible
}
