package grammar

import (
	_ "embed"
	"sync"
)

//go:embed megac.y
var defaultText string

// DefaultName is the name the built-in grammar reports from Name.
const DefaultName = "megac.y"

var loadDefault = sync.OnceValues(func() (*Grammar, error) {
	return ParseString(DefaultName, defaultText)
})

// Default returns the built-in megac grammar. It is loaded once and shared.
func Default() (*Grammar, error) {
	return loadDefault()
}

// DefaultText returns the source of the built-in grammar.
func DefaultText() string {
	return defaultText
}
