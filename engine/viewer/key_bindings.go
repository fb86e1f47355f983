package viewer

import (
	"github.com/Carmen-Shannon/oxy-mdl/engine/viewer/controls"
	"github.com/hajimehoshi/ebiten/v2"
)

type keyBinding struct {
	key    ebiten.Key
	action controls.Action
}

// keyBindings maps edge-triggered keys to session actions.
var keyBindings = []keyBinding{
	{ebiten.KeyArrowDown, controls.ActionNextSequence},
	{ebiten.KeyArrowUp, controls.ActionPrevSequence},
	{ebiten.KeyEqual, controls.ActionFaster},
	{ebiten.KeyNumpadAdd, controls.ActionFaster},
	{ebiten.KeyMinus, controls.ActionSlower},
	{ebiten.KeyNumpadSubtract, controls.ActionSlower},
	{ebiten.KeySpace, controls.ActionTogglePause},
	{ebiten.KeyTab, controls.ActionNextController},
	{ebiten.KeyBracketRight, controls.ActionRaiseController},
	{ebiten.KeyBracketLeft, controls.ActionLowerController},
	{ebiten.KeyB, controls.ActionNextBlend},
	{ebiten.KeyPeriod, controls.ActionRaiseBlend},
	{ebiten.KeyComma, controls.ActionLowerBlend},
	{ebiten.KeyR, controls.ActionResetControllers},
}
