package review

import "slices"

// Command is a reviewer action resolved from a key press.
type Command int

const (
	CommandNone Command = iota
	CommandSave
	CommandDelete
	CommandSkip
	CommandNudgeLeft
	CommandNudgeRight
	CommandNudgeUp
	CommandNudgeDown
)

func (c Command) String() string {
	switch c {
	case CommandSave:
		return "save"
	case CommandDelete:
		return "delete"
	case CommandSkip:
		return "skip"
	case CommandNudgeLeft:
		return "nudge-left"
	case CommandNudgeRight:
		return "nudge-right"
	case CommandNudgeUp:
		return "nudge-up"
	case CommandNudgeDown:
		return "nudge-down"
	default:
		return "none"
	}
}

// Keymap binds keys to commands.
type Keymap struct {
	Save   []string
	Delete []string
	Skip   []string
	Left   []string
	Right  []string
	Up     []string
	Down   []string
}

// DefaultKeymap matches the classic s/d/q bindings plus arrow keys.
func DefaultKeymap() Keymap {
	return Keymap{
		Save:   []string{"s"},
		Delete: []string{"d"},
		Skip:   []string{"q"},
		Left:   []string{"left", "h"},
		Right:  []string{"right", "l"},
		Up:     []string{"up", "k"},
		Down:   []string{"down", "j"},
	}
}

// Resolve maps a key to its command.
func (k Keymap) Resolve(key string) Command {
	switch {
	case slices.Contains(k.Save, key):
		return CommandSave
	case slices.Contains(k.Delete, key):
		return CommandDelete
	case slices.Contains(k.Skip, key):
		return CommandSkip
	case slices.Contains(k.Left, key):
		return CommandNudgeLeft
	case slices.Contains(k.Right, key):
		return CommandNudgeRight
	case slices.Contains(k.Up, key):
		return CommandNudgeUp
	case slices.Contains(k.Down, key):
		return CommandNudgeDown
	}
	return CommandNone
}
