package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrim(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", Trim(""))
	assert.Equal("1", Trim("   1   "))
	assert.Equal("1 2 3", Trim("   1   2    3   "))
}

func TestTrimMultiLine(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", TrimMultiLine(""))
	assert.Equal("1", TrimMultiLine("  \n  1  \n  "))
	assert.Equal("1\n\n2 3", TrimMultiLine("1\n \n\n   \n2   3\n\n"))
}

func TestFormatCommas(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0", FormatCommas(0))
	assert.Equal("100", FormatCommas(100))
	assert.Equal("1,000", FormatCommas(1000))
	assert.Equal("1,234,567", FormatCommas(1234567))
	assert.Equal("-1,234", FormatCommas(-1234))
}

func TestHTMLToText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", HTMLToText(""))
	assert.Equal("hello world", HTMLToText("<b>hello</b>   world"))
	assert.Equal("first\nsecond", HTMLToText("<p>first</p><p>second</p><script>alert(1)</script>"))
}

func TestEllipsis(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("abc", Ellipsis("abc", 3))
	assert.Equal("ab...", Ellipsis("abc", 2))
	assert.Equal("가나...", Ellipsis("가나다라", 2))
	assert.Equal("abc", Ellipsis("abc", 0))
}
