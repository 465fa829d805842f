package scout

// Key names a keyboard key for Page.Press. Executors map names to their
// own key codes.
type Key string

// Special key constants for use with Press.
const (
	Enter      Key = "Enter"
	Escape     Key = "Escape"
	Tab        Key = "Tab"
	Backspace  Key = "Backspace"
	Delete     Key = "Delete"
	ArrowUp    Key = "ArrowUp"
	ArrowDown  Key = "ArrowDown"
	ArrowLeft  Key = "ArrowLeft"
	ArrowRight Key = "ArrowRight"
	Home       Key = "Home"
	End        Key = "End"
	PageUp     Key = "PageUp"
	PageDown   Key = "PageDown"
	Space      Key = "Space"
)
