package keybind

import "errors"

var (
	errUnterminatedItem = errors.New("keybind: unterminated {key} item")
	errEmptyKey         = errors.New("keybind: empty key name")
	errUnknownModifier  = errors.New("keybind: unknown modifier")
	errBadEscape        = errors.New("keybind: malformed 0xHHHH escape")
	errUnknownKeysym    = errors.New("keybind: unknown keysym name")
)
