package keybind

import (
	"strconv"
	"strings"

	"github.com/rimecore/rimecore/pkg/core"
)

// keysyms maps X11 keysym names to their KeyEvent.Code representation.
// Printable keys are represented by Code holding the literal rune, so
// only non-printable names need an entry here.
var keysyms = map[string]string{
	"Return":     "Return",
	"KP_Enter":   "Return",
	"Escape":     "Escape",
	"BackSpace":  "BackSpace",
	"Tab":        "Tab",
	"Delete":     "Delete",
	"Home":       "Home",
	"End":        "End",
	"Left":       "Left",
	"Right":      "Right",
	"Up":         "Up",
	"Down":       "Down",
	"Page_Up":    "Page_Up",
	"Page_Down":  "Page_Down",
	"space":      " ",
	"Insert":     "Insert",
	"F1":         "F1",
	"F2":         "F2",
	"F3":         "F3",
	"F4":         "F4",
	"F5":         "F5",
	"F6":         "F6",
	"F7":         "F7",
	"F8":         "F8",
	"F9":         "F9",
	"F10":        "F10",
	"F11":        "F11",
	"F12":        "F12",
	"Caps_Lock":  "Caps_Lock",
	"Shift_L":    "Shift_L",
	"Shift_R":    "Shift_R",
	"Control_L":  "Control_L",
	"Control_R":  "Control_R",
	"Alt_L":      "Alt_L",
	"Alt_R":      "Alt_R",
	"Super_L":    "Super_L",
	"Super_R":    "Super_R",
}

// ParseSequence parses a key sequence per the grammar
//
//	Sequence := Item*
//	Item     := Printable | '{' Key '}'
//	Key      := (Modifier '+')* Name
//	Modifier ∈ {Shift, Control, Alt, Caps, Super, Release}
//	Name     is an X11 keysym or 0xHHHH[HH]
//
// and returns the resulting events. A parse error empties the
// sequence, matching simulate_key_sequence's documented behavior.
func ParseSequence(repr string) []core.KeyEvent {
	events, err := parseSequence(repr)
	if err != nil {
		return nil
	}
	return events
}

func parseSequence(repr string) ([]core.KeyEvent, error) {
	var events []core.KeyEvent
	runes := []rune(repr)
	i := 0
	for i < len(runes) {
		if runes[i] != '{' {
			events = append(events, core.KeyEvent{Code: string(runes[i])})
			i++
			continue
		}
		end := indexRune(runes, i+1, '}')
		if end < 0 {
			return nil, errUnterminatedItem
		}
		key, err := parseKey(string(runes[i+1 : end]))
		if err != nil {
			return nil, err
		}
		events = append(events, key)
		i = end + 1
	}
	return events, nil
}

func indexRune(runes []rune, from int, target rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == target {
			return i
		}
	}
	return -1
}

func parseKey(body string) (core.KeyEvent, error) {
	if body == "" {
		return core.KeyEvent{}, errEmptyKey
	}
	parts := strings.Split(body, "+")
	ev := core.KeyEvent{}
	name := parts[len(parts)-1]
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "Shift":
			ev.Shift = true
		case "Control":
			ev.Control = true
		case "Alt":
			ev.Alt = true
		case "Caps":
			ev.Caps = true
		case "Super":
			ev.Super = true
		case "Release":
			ev.Release = true
		default:
			return core.KeyEvent{}, errUnknownModifier
		}
	}
	code, err := resolveName(name)
	if err != nil {
		return core.KeyEvent{}, err
	}
	ev.Code = code
	return ev, nil
}

func resolveName(name string) (string, error) {
	if name == "" {
		return "", errEmptyKey
	}
	if code, ok := keysyms[name]; ok {
		return code, nil
	}
	if strings.HasPrefix(name, "0x") || strings.HasPrefix(name, "0X") {
		n, err := strconv.ParseUint(name[2:], 16, 32)
		if err != nil {
			return "", errBadEscape
		}
		return string(rune(n)), nil
	}
	if len([]rune(name)) == 1 {
		return name, nil
	}
	return "", errUnknownKeysym
}
