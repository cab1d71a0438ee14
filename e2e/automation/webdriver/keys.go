package webdriver

import "github.com/arelle/uiprobe/e2e/automation"

// WebDriver key codes.
const (
	keyNull    = "\uE000"
	keyTab     = "\uE004"
	keyEnter   = "\uE007"
	keyShift   = "\uE008"
	keyControl = "\uE009"
	keyAlt     = "\uE00A"
	keyEscape  = "\uE00C"
)

var keyCodes = map[automation.Key]string{
	automation.KeyControl: keyControl,
	automation.KeyShift:   keyShift,
	automation.KeyAlt:     keyAlt,
	automation.KeyEnter:   keyEnter,
	automation.KeyTab:     keyTab,
	automation.KeyEscape:  keyEscape,
}

func keyCode(k automation.Key) string {
	if code, ok := keyCodes[k]; ok {
		return code
	}
	return string(k)
}

// chordSequence presses keys in order and releases every modifier at the end.
func chordSequence(keys []automation.Key) []string {
	seq := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		seq = append(seq, keyCode(k))
	}
	return append(seq, keyNull)
}

func pressSequence(keys []automation.Key) []string {
	seq := make([]string, 0, len(keys))
	for _, k := range keys {
		seq = append(seq, keyCode(k))
	}
	return seq
}
