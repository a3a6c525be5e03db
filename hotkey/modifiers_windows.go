package hotkey

import (
	xhk "golang.design/x/hotkey"

	"murmur/keys"
)

var modifierMap = map[string]xhk.Modifier{
	keys.Ctrl:  xhk.ModCtrl,
	keys.Shift: xhk.ModShift,
	keys.Alt:   xhk.ModAlt,
	keys.Super: xhk.ModWin,
}
