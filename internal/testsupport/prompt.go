package testsupport

import (
	"fmt"
	"sync"
)

// ScriptedPrompter answers prompts from queued responses and records what was
// asked. It satisfies prompt.Prompter.
type ScriptedPrompter struct {
	mu         sync.Mutex
	inputs     []string
	selections [][]int
	err        error

	InputMessages []string
	Offered       [][]string
}

// NewScriptedPrompter returns a prompter that replays inputs for Input calls.
func NewScriptedPrompter(inputs ...string) *ScriptedPrompter {
	return &ScriptedPrompter{inputs: inputs}
}

// QueueSelection appends the indices returned by the next MultiSelect call.
func (p *ScriptedPrompter) QueueSelection(indices ...int) *ScriptedPrompter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if indices == nil {
		indices = []int{}
	}
	p.selections = append(p.selections, indices)
	return p
}

// FailWith makes every subsequent prompt return err.
func (p *ScriptedPrompter) FailWith(err error) *ScriptedPrompter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	return p
}

// Input replays the next queued answer.
func (p *ScriptedPrompter) Input(message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.InputMessages = append(p.InputMessages, message)
	if p.err != nil {
		return "", p.err
	}
	if len(p.inputs) == 0 {
		return "", fmt.Errorf("scripted prompter: no input left for %q", message)
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	return answer, nil
}

// MultiSelect replays the next queued selection.
func (p *ScriptedPrompter) MultiSelect(message string, options []string) ([]int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Offered = append(p.Offered, append([]string(nil), options...))
	if p.err != nil {
		return nil, p.err
	}
	if len(p.selections) == 0 {
		return nil, fmt.Errorf("scripted prompter: no selection left for %q", message)
	}
	picked := p.selections[0]
	p.selections = p.selections[1:]
	return picked, nil
}
