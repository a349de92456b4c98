package marker

import (
	"image/color"
	"regexp"
	"strings"
	"sync"

	"github.com/NielsIH/snapspot/pkg/colorutil"
)

// Operator selects how a coloring rule matches a marker's description.
type Operator string

const (
	OpIsEmpty    Operator = "isEmpty"
	OpIsNotEmpty Operator = "isNotEmpty"
	OpContains   Operator = "contains"
)

// Rule is one entry of the ordered coloring rule list. Rules are
// supplied wholesale by the settings collaborator and treated as
// immutable during a render pass.
type Rule struct {
	Operator Operator
	Value    string
	Color    color.RGBA
}

// Style is the resolved color set for drawing one marker.
type Style struct {
	Border color.RGBA
	Fill   color.RGBA
	Text   color.RGBA
}

// Default 2x2 palette keyed by (editable, has-photos), used when no
// rule matches.
var (
	styleEditablePhotos = styleFromFill(colorutil.Green)
	styleEditablePlain  = styleFromFill(colorutil.Blue)
	styleLockedPhotos   = styleFromFill(colorutil.Darken(colorutil.Green, 0.35))
	styleLockedPlain    = styleFromFill(colorutil.Gray)
)

func styleFromFill(fill color.RGBA) Style {
	return Style{
		Border: colorutil.Darken(fill, 0.4),
		Fill:   fill,
		Text:   colorutil.ContrastText(fill),
	}
}

// defaultDescPattern matches auto-generated descriptions of the form
// "Marker at <int>, <int>". Such descriptions count as empty for the
// isEmpty/isNotEmpty operators only.
var defaultDescPattern = regexp.MustCompile(`^Marker at -?\d+, -?\d+$`)

// describedAsEmpty applies the one normalization the empty checks use.
func describedAsEmpty(description string) bool {
	trimmed := strings.TrimSpace(description)
	return trimmed == "" || defaultDescPattern.MatchString(trimmed)
}

// StyleEngine evaluates the active rule list against a marker.
//
// Precedence is last-declared-wins. The engine scans the list forward
// and records the last rule that matches; this forward scan is the
// authoritative formulation (not a reversed list, not reverse
// iteration), chosen because it keeps the stored rule order identical
// to the order the settings file declares.
type StyleEngine struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewStyleEngine creates an engine with no rules.
func NewStyleEngine() *StyleEngine {
	return &StyleEngine{}
}

// SetRules replaces the rule list wholesale. Safe to call while renders
// read styles, since rule reloads arrive from a watcher goroutine.
func (e *StyleEngine) SetRules(rules []Rule) {
	e.mu.Lock()
	e.rules = append([]Rule(nil), rules...)
	e.mu.Unlock()
}

// Rules returns the active rule list.
func (e *StyleEngine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules
}

// StyleFor resolves the colors for a marker. editable is the derived
// per-render editability of the marker set.
func (e *StyleEngine) StyleFor(m Marker, editable bool) Style {
	e.mu.RLock()
	var matched *Rule
	for i := range e.rules {
		if e.rules[i].matches(m) {
			matched = &e.rules[i]
		}
	}
	e.mu.RUnlock()
	if matched != nil {
		return styleFromFill(matched.Color)
	}

	switch {
	case editable && m.HasPhotos:
		return styleEditablePhotos
	case editable:
		return styleEditablePlain
	case m.HasPhotos:
		return styleLockedPhotos
	default:
		return styleLockedPlain
	}
}

func (r Rule) matches(m Marker) bool {
	switch r.Operator {
	case OpIsEmpty:
		return describedAsEmpty(m.Description)
	case OpIsNotEmpty:
		return !describedAsEmpty(m.Description)
	case OpContains:
		if r.Value == "" {
			return false
		}
		// Case-insensitive match on the raw, non-normalized description.
		return strings.Contains(strings.ToLower(m.Description), strings.ToLower(r.Value))
	default:
		return false
	}
}
