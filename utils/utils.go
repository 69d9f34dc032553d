package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func Trim(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

func TrimMultiLine(s string) string {
	var ret []string
	var appendedEmptyLine bool

	lines := strings.Split(s, "\n")
	for _, line := range lines {
		trimLine := Trim(line)
		if trimLine != "" {
			appendedEmptyLine = false
			ret = append(ret, trimLine)
		} else {
			if appendedEmptyLine == false {
				appendedEmptyLine = true
				ret = append(ret, "")
			}
		}
	}

	if len(ret) >= 2 {
		if ret[0] == "" {
			ret = ret[1:]
		}
		if ret[len(ret)-1] == "" {
			ret = ret[:len(ret)-1]
		}
	}

	return strings.Join(ret, "\n")
}

var numberPrinter = message.NewPrinter(language.English)

func FormatCommas(num int) string {
	return numberPrinter.Sprintf("%d", num)
}

// HTMLToText 게시글 본문(HTML)에서 태그를 제거한 텍스트를 구한다.
func HTMLToText(s string) string {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return Trim(s)
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script, style").Remove()
	doc.Find("br, p, div, li").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	return TrimMultiLine(doc.Text())
}

// Ellipsis 최대 글자수를 넘으면 말줄임표를 붙여 자른다.
func Ellipsis(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	return string([]rune(s)[:limit]) + "..."
}
