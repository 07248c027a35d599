// Package perceptron defines the signal vocabulary and the payload sum type
// carried across the Signaler bus. Keeping this in its own package lets
// qualia, frames and exhibitor all depend on it without qualia depending on
// exhibitor.
package perceptron

// SignalId names one event kind the application may emit. The set below is
// the canonical minimum vocabulary; a receiver subscribes to the ids it
// cares about and must exhaustively handle whatever Perceptron arrives for
// each one.
type SignalId int

const (
	Notify SignalId = iota
	PageFlip
	OutputFound
	Command
	InputPointerMotion
	InputPointerPosition
	InputPointerButton
	InputPointerPositionReset
	CursorSurfaceChange
	SurfaceReady
	SurfaceDestroyed
	SurfaceReconfigured
	KeyboardFocusChanged
	PointerFocusChanged

	numSignalIds
)

var signalNames = [numSignalIds]string{
	Notify:                    "NOTIFY",
	PageFlip:                  "PAGE_FLIP",
	OutputFound:               "OUTPUT_FOUND",
	Command:                   "COMMAND",
	InputPointerMotion:        "INPUT_POINTER_MOTION",
	InputPointerPosition:      "INPUT_POINTER_POSITION",
	InputPointerButton:        "INPUT_POINTER_BUTTON",
	InputPointerPositionReset: "INPUT_POINTER_POSITION_RESET",
	CursorSurfaceChange:       "CURSOR_SURFACE_CHANGE",
	SurfaceReady:              "SURFACE_READY",
	SurfaceDestroyed:          "SURFACE_DESTROYED",
	SurfaceReconfigured:       "SURFACE_RECONFIGURED",
	KeyboardFocusChanged:      "KEYBOARD_FOCUS_CHANGED",
	PointerFocusChanged:       "POINTER_FOCUS_CHANGED",
}

func (id SignalId) String() string {
	if id < 0 || id >= numSignalIds {
		return "UNKNOWN"
	}
	return signalNames[id]
}
