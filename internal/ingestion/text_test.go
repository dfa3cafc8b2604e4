package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText_NormalizesWhitespace(t *testing.T) {
	result := CleanText("Line    with    runs   of spaces")
	assert.Equal(t, "Line with runs of spaces", result)
}

func TestCleanText_PreservesBullets(t *testing.T) {
	result := CleanText("Requirements:\n  - Go experience\n  * On-call rotation")
	assert.Contains(t, result, "  - Go experience")
	assert.Contains(t, result, "  * On-call rotation")
}

func TestCleanText_CapsBlankLines(t *testing.T) {
	result := CleanText("First\n\n\n\n\nSecond")
	assert.Equal(t, "First\n\nSecond", result)
}

func TestCleanText_NormalizesLineEndings(t *testing.T) {
	result := CleanText("one\r\ntwo\rthree")
	assert.Equal(t, "one\ntwo\nthree", result)
}

func TestCleanText_Empty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("   \n  \t \n"))
}
