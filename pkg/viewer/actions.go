package viewer

import (
	"slices"

	uv "github.com/charmbracelet/ultraviolet"
)

// Action is a user command the driver understands.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRotate
	ActionTime
	ActionExplode
	ActionCameraDial
	ActionCameraCase
	ActionCameraCrown
	ActionCameraBracelet
	ActionLighting
	ActionBrighter
	ActionDimmer
	ActionResetView
	ActionWireframe
	ActionHUD
)

var actionNames = map[Action]string{
	ActionNone:           "none",
	ActionQuit:           "quit",
	ActionRotate:         "rotate",
	ActionTime:           "time",
	ActionExplode:        "explode",
	ActionCameraDial:     "camera-dial",
	ActionCameraCase:     "camera-case",
	ActionCameraCrown:    "camera-crown",
	ActionCameraBracelet: "camera-bracelet",
	ActionLighting:       "lighting",
	ActionBrighter:       "environment-up",
	ActionDimmer:         "environment-down",
	ActionResetView:      "reset-view",
	ActionWireframe:      "wireframe",
	ActionHUD:            "hud",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// cameraActions maps preset actions to camera preset names.
var cameraActions = map[Action]string{
	ActionCameraDial:     "dial",
	ActionCameraCase:     "case",
	ActionCameraCrown:    "crown",
	ActionCameraBracelet: "bracelet",
}

// Binding ties keys to an action.
type Binding struct {
	Keys   []string
	Action Action
	Help   string
}

// Bindings is the keyboard map, in the order the help lists it.
var Bindings = []Binding{
	{Keys: []string{"r"}, Action: ActionRotate, Help: "toggle auto-rotation"},
	{Keys: []string{"t"}, Action: ActionTime, Help: "toggle real-time hands"},
	{Keys: []string{"e"}, Action: ActionExplode, Help: "toggle exploded view"},
	{Keys: []string{"1"}, Action: ActionCameraDial, Help: "camera: dial"},
	{Keys: []string{"2"}, Action: ActionCameraCase, Help: "camera: case"},
	{Keys: []string{"3"}, Action: ActionCameraCrown, Help: "camera: crown"},
	{Keys: []string{"4"}, Action: ActionCameraBracelet, Help: "camera: bracelet"},
	{Keys: []string{"l"}, Action: ActionLighting, Help: "next lighting preset"},
	{Keys: []string{"+", "="}, Action: ActionBrighter, Help: "more reflections"},
	{Keys: []string{"-", "_"}, Action: ActionDimmer, Help: "fewer reflections"},
	{Keys: []string{"0"}, Action: ActionResetView, Help: "reset view"},
	{Keys: []string{"w", "x"}, Action: ActionWireframe, Help: "toggle wireframe"},
	{Keys: []string{"?", "shift+/"}, Action: ActionHUD, Help: "toggle HUD"},
	{Keys: []string{"q", "esc", "ctrl+c"}, Action: ActionQuit, Help: "quit"},
}

// ActionFor returns the action bound to a key press. Printable keys match on
// the text they produce, since MatchString treats "+" as a separator.
func ActionFor(ev uv.KeyPressEvent) Action {
	for _, b := range Bindings {
		if ev.Text != "" && slices.Contains(b.Keys, ev.Text) || ev.MatchString(b.Keys...) {
			return b.Action
		}
	}
	return ActionNone
}
