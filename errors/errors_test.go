package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileErrorMessage(t *testing.T) {
	err := Unsupportedf("unsupported construct: %s", "if statement").At("main.go", 4, 2)
	assert.Equal(t,
		"compile error: unsupported construct: if statement\n\nlocation: main.go:4:2 (line 4, column 2)",
		err.Error())

	bare := Internalf(E2201, "unresolved identity")
	assert.Equal(t, "compile error: unresolved identity", bare.Error())
}

func TestAtIgnoresZeroLine(t *testing.T) {
	err := Limitf(E2007, "too many locals").At("main.go", 0, 0)
	assert.Equal(t, "", err.Filename)
	assert.Equal(t, 0, err.Line)
}

func TestKindHelpers(t *testing.T) {
	unsupported := Unsupportedf("x")
	internal := Internalf(E2203, "y")
	limit := Limitf(E2008, "z")
	wrapped := fmt.Errorf("compiling: %w", internal)

	assert.True(t, IsUnsupported(unsupported))
	assert.False(t, IsInternal(unsupported))
	assert.True(t, IsInternal(wrapped))
	assert.True(t, IsLimit(limit))
	assert.Equal(t, E2203, CodeOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(ErrPoisoned))
	assert.Equal(t, ErrorCode(""), CodeOf(ErrPoisoned))
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "unsupported construct", E2101.Description())
	assert.Equal(t, "compile", E2101.Category())
	assert.Equal(t, "frontend", E1002.Category())
	assert.Equal(t, "image", E3002.Category())
	assert.Equal(t, "unknown error", ErrorCode("E9999").Description())
	assert.Equal(t, "unknown", ErrorCode("").Category())
}

func TestFormatter(t *testing.T) {
	err := &CompileError{
		Kind:       Unsupported,
		Code:       E2101,
		Message:    "unsupported construct: for statement",
		Filename:   "main.go",
		Line:       3,
		Column:     2,
		SourceLine: "\tfor {}",
		Note:       "loops have no lowering",
	}
	out := err.FriendlyErrorMessage()
	assert.Equal(t, "error[E2101]: unsupported construct: for statement\n"+
		"  --> main.go:3:2\n"+
		"   |\n"+
		" 3 | \tfor {}\n"+
		"   |  ^\n"+
		"   = note: loops have no lowering\n", out)
}

func TestFormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	out := f.FormatMultiple([]*FormattedError{
		{Message: "first"},
		{Message: "second"},
	})
	assert.Contains(t, out, "error[1/2]: first")
	assert.Contains(t, out, "error[2/2]: second")
	assert.Contains(t, out, "found 2 errors")
	assert.Equal(t, "", f.FormatMultiple(nil))
}

func TestSuggestSimilar(t *testing.T) {
	suggestions := SuggestSimilar("prnt", []string{"print", "println", "sprint", "len"})
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "print", suggestions[0].Value)
	assert.Equal(t, 1, suggestions[0].Distance)

	assert.Empty(t, SuggestSimilar("", []string{"a"}))
	assert.Empty(t, SuggestSimilar("abc", []string{"xyz"}))
	assert.Equal(t, "did you mean 'print'?", FormatSuggestions(suggestions[:1]))
	assert.Equal(t, "did you mean one of: 'a', 'b'?",
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("abc", "abc"))
	assert.Equal(t, 3, editDistance("", "abc"))
	assert.Equal(t, 1, editDistance("abc", "abd"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
}
