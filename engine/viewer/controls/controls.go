// Package controls maps viewer input actions onto an animation session.
package controls

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-mdl/common"
	"github.com/Carmen-Shannon/oxy-mdl/engine/animation"
)

// Action is one discrete viewer command.
type Action int

const (
	ActionNone Action = iota
	ActionNextSequence
	ActionPrevSequence
	ActionFaster
	ActionSlower
	ActionTogglePause
	ActionNextController
	ActionRaiseController
	ActionLowerController
	ActionNextBlend
	ActionRaiseBlend
	ActionLowerBlend
	ActionResetControllers
)

// Step sizes for the adjusting actions.
const (
	RateStep       float32 = 0.1
	MaxRate        float32 = 10
	ControllerStep         = 8
)

// Controls holds the viewer's selection state between actions.
// It is not safe for concurrent use; apply actions from the goroutine that owns the session.
type Controls struct {
	controller int
	blend      int
	paused     bool
	savedRate  float32
}

// New returns controls selecting the first bone and blend controller.
func New() *Controls {
	return &Controls{savedRate: 1}
}

// Paused reports whether playback is paused.
func (c *Controls) Paused() bool {
	return c.paused
}

// SelectedController returns the index of the bone controller the adjust actions act on.
func (c *Controls) SelectedController() int {
	return c.controller
}

// SelectedBlend returns the index of the blend controller the adjust actions act on.
func (c *Controls) SelectedBlend() int {
	return c.blend
}

// Apply performs a on s. Actions that have nothing to act on, such as adjusting a
// controller on a model without controllers, do nothing.
//
// Parameters:
//   - a: the action to perform
//   - s: the session to act on
//
// Returns:
//   - error: an error from the session if the action was rejected
func (c *Controls) Apply(a Action, s animation.Session) error {
	numSeq := len(s.Model().Sequences())
	numCtrl := len(s.Model().BoneControllers())
	numBlend := s.Model().NumBlendControllers()

	switch a {
	case ActionNextSequence, ActionPrevSequence:
		if numSeq == 0 {
			return nil
		}
		step := 1
		if a == ActionPrevSequence {
			step = -1
		}
		return s.SetSequence((s.SequenceIndex() + step + numSeq) % numSeq)

	case ActionFaster, ActionSlower:
		step := RateStep
		if a == ActionSlower {
			step = -RateStep
		}
		if c.paused {
			c.savedRate = common.Clamp(c.savedRate+step, 0, MaxRate)
			return nil
		}
		s.SetPlaybackRate(common.Clamp(s.PlaybackRate()+step, 0, MaxRate))

	case ActionTogglePause:
		if c.paused {
			s.SetPlaybackRate(c.savedRate)
		} else {
			c.savedRate = s.PlaybackRate()
			s.SetPlaybackRate(0)
		}
		c.paused = !c.paused

	case ActionNextController:
		if numCtrl > 0 {
			c.controller = (c.controller + 1) % numCtrl
		}

	case ActionRaiseController, ActionLowerController:
		if numCtrl == 0 {
			return nil
		}
		ch, err := s.BoneController(c.controller)
		if err != nil {
			return err
		}
		return s.SetBoneController(c.controller, stepValue(ch.RawValue(), a == ActionRaiseController))

	case ActionNextBlend:
		if numBlend > 0 {
			c.blend = (c.blend + 1) % numBlend
		}

	case ActionRaiseBlend, ActionLowerBlend:
		if numBlend == 0 {
			return nil
		}
		v, err := s.BlendController(c.blend)
		if err != nil {
			return err
		}
		return s.SetBlendController(c.blend, stepValue(v, a == ActionRaiseBlend))

	case ActionResetControllers:
		s.ResetControllers()
	}
	return nil
}

// stepValue moves a raw controller value by ControllerStep, saturating at 0 and 255.
func stepValue(v uint8, up bool) uint8 {
	n := int(v) - ControllerStep
	if up {
		n = int(v) + ControllerStep
	}
	return uint8(min(max(n, 0), 255))
}

// Overlay formats the state shown over the viewport, one line per entry.
//
// Parameters:
//   - snap: the session state to describe
//
// Returns:
//   - []string: the overlay lines
func (c *Controls) Overlay(snap animation.Snapshot) []string {
	lines := []string{
		snap.ModelName,
		fmt.Sprintf("sequence %d/%d %s", snap.SequenceIndex, len(snap.Sequences), snap.SequenceName),
		fmt.Sprintf("frame %.1f/%d", snap.Frame, snap.NumFrames),
	}

	rate := fmt.Sprintf("rate %.2f", snap.PlaybackRate)
	if c.paused {
		rate = fmt.Sprintf("paused (rate %.2f)", c.savedRate)
	}
	lines = append(lines, rate)

	for _, bc := range snap.BoneControllers {
		marker := " "
		if bc.Index == c.controller {
			marker = ">"
		}
		name := bc.BoneName
		if bc.IsMouth {
			name += " (mouth)"
		}
		lines = append(lines, fmt.Sprintf("%s ctrl %d %s %d -> %.2f", marker, bc.Index, name, bc.RawValue, bc.AdjustedValue))
	}
	for _, b := range snap.BlendControllers {
		marker := " "
		if b.Index == c.blend {
			marker = ">"
		}
		lines = append(lines, fmt.Sprintf("%s blend %d %d", marker, b.Index, b.Value))
	}
	return lines
}

// Help lists the key bindings shown by the viewer.
var Help = strings.Join([]string{
	"Up/Down sequence",
	"+/- rate  Space pause",
	"Tab [ ] bone controller",
	"B , . blend  R reset",
	"Left/Right PgUp/PgDn wheel camera",
	"F frame  X box  H help",
}, "\n")
