package mode

import (
	"time"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/logger"
	"github.com/v0xg/pickr/internal/selection"
)

type inputState struct {
	text   string
	result *QueryResult
	timer  *time.Timer
	// seq identifies the latest keystroke; only its timer may evaluate.
	seq uint64
	// stale is set when an evaluation was skipped while paused.
	stale bool
}

func (in *inputState) stop() {
	if in.timer != nil {
		in.timer.Stop()
		in.timer = nil
	}
}

// Input records the selector text and schedules its evaluation once typing
// stops for the debounce period. Each call cancels the pending evaluation.
func (c *Controller) Input(text string) {
	if c.active != selection.ModeInput {
		return
	}
	in := c.input
	in.text = text
	in.seq++
	in.stop()

	gen, seq := c.gen, in.seq
	in.timer = time.AfterFunc(c.debounce, func() {
		c.post(func() {
			if c.gen != gen || c.input == nil || c.input.seq != seq {
				return
			}
			c.evaluate()
		})
	})
}

// Text returns the selector text last typed in input mode.
func (c *Controller) Text() string {
	if c.input == nil {
		return ""
	}
	return c.input.text
}

// Result returns the current match list, or nil.
func (c *Controller) Result() *QueryResult {
	if c.input == nil {
		return nil
	}
	return c.input.result
}

// Refresh evaluates the selector again if an evaluation was skipped while
// paused.
func (c *Controller) Refresh() {
	if c.active != selection.ModeInput || !c.input.stale {
		return
	}
	c.evaluateNow()
}

func (c *Controller) evaluateNow() {
	c.input.seq++
	c.input.stop()
	c.evaluate()
}

func (c *Controller) clearMatches() {
	c.input.result = nil
	c.store.Clear()
	c.store.UnpaintAll()
}

// evaluate runs the selector, paints the matches and publishes the outcome.
func (c *Controller) evaluate() {
	in := c.input
	if c.store.State().Paused {
		in.stale = true
		return
	}
	in.stale = false

	c.clearMatches()
	st := Query(c.doc, in.text)
	if st.Result == nil {
		c.publish(st)
		return
	}
	for _, el := range st.Result.Elements {
		c.store.Paint(el, MatchStyle)
	}
	in.result = st.Result
	c.focus(nil, in.result.Current())
	c.publish(st)
}

func (c *Controller) status() QueryStatus {
	return found(c.input.result)
}

// focus moves the selection to el and demotes prev to a plain match.
func (c *Controller) focus(prev, el dom.Element) {
	c.store.Set(el)
	if prev != nil && !dom.Same(prev, el) {
		c.store.Paint(prev, MatchStyle)
	}
	if err := el.ScrollIntoView(); err != nil {
		logger.Debugf("mode: scroll %s failed: %v", dom.Describe(el), err)
	}
}

// NextMatch moves the cursor forward with wraparound and returns the new
// current match. It returns nil without a match list.
func (c *Controller) NextMatch() dom.Element {
	return c.cycle((*QueryResult).Next)
}

// PreviousMatch moves the cursor back with wraparound.
func (c *Controller) PreviousMatch() dom.Element {
	return c.cycle((*QueryResult).Previous)
}

func (c *Controller) cycle(step func(*QueryResult) dom.Element) dom.Element {
	r := c.Result()
	if c.active != selection.ModeInput || r.Len() == 0 {
		return nil
	}
	// A committed match stays current until it is unfrozen.
	if c.store.State().Frozen {
		return nil
	}
	if r.Len() == 1 {
		return r.Current()
	}
	prev := r.Current()
	el := step(r)
	c.focus(prev, el)
	c.publish(c.status())
	return el
}

// Commit runs the click action on the match under the cursor. Without a
// match list it evaluates the typed selector immediately instead.
func (c *Controller) Commit() bool {
	if c.active != selection.ModeInput {
		return false
	}
	r := c.input.result
	if r == nil {
		c.evaluateNow()
		return true
	}
	c.runAction(action.ClickKey, r.Current())
	return true
}
