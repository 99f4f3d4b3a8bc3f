// ABOUTME: Outreach focus areas offered to the script generator
// ABOUTME: Fixed enumeration with display labels
package ai

import "fmt"

type Focus string

const (
	FocusCentralBanks  Focus = "central-banks"
	FocusFintech       Focus = "fintech"
	FocusInstitutional Focus = "institutional"
)

// DefaultFocus is used when the caller does not pick one.
const DefaultFocus = FocusCentralBanks

var focusLabels = map[Focus]string{
	FocusCentralBanks:  "Central Banks & Regulators",
	FocusFintech:       "Fintech & Digital Banking",
	FocusInstitutional: "Institutional Investment",
}

// Focuses lists the focus areas in menu order.
func Focuses() []Focus {
	return []Focus{FocusCentralBanks, FocusFintech, FocusInstitutional}
}

func (f Focus) Label() string {
	if l, ok := focusLabels[f]; ok {
		return l
	}
	return string(f)
}

func (f Focus) IsValid() bool {
	_, ok := focusLabels[f]
	return ok
}

// ParseFocus validates raw, returning DefaultFocus for an empty value.
func ParseFocus(raw string) (Focus, error) {
	if raw == "" {
		return DefaultFocus, nil
	}
	f := Focus(raw)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown focus %q (valid: central-banks, fintech, institutional)", raw)
	}
	return f, nil
}
