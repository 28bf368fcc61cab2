package metadata

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes (start at 1 to avoid clash with parsly.EOF).
const (
	whitespaceCode = iota + 1
	headerCode
	footerCode
	componentCode
	openParenCode
	closeParenCode
	labelCode
	cyclesCode
	separatorCode
	terminatorCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	headerToken     = parsly.NewToken(headerCode, "Header", matcher.NewFragment("Start Program Meta-Data Code:"))
	footerToken     = parsly.NewToken(footerCode, "Footer", matcher.NewFragment("End Program Meta-Data Code."))
	componentToken  = parsly.NewToken(componentCode, "Component", &componentMatcher{})
	openParenToken  = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
	labelToken      = parsly.NewToken(labelCode, "Label", &labelMatcher{})
	cyclesToken     = parsly.NewToken(cyclesCode, "Cycles", &digitsMatcher{})
	separatorToken  = parsly.NewToken(separatorCode, ";", matcher.NewByte(';'))
	terminatorToken = parsly.NewToken(terminatorCode, ".", matcher.NewByte('.'))
)

// componentMatcher matches a single upper-case letter directly followed by '('
type componentMatcher struct{}

func (m *componentMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	if pos+1 >= cursor.InputSize {
		return 0
	}
	if input[pos] < 'A' || input[pos] > 'Z' || input[pos+1] != '(' {
		return 0
	}
	return 1
}

// labelMatcher captures everything until the closing parenthesis
type labelMatcher struct{}

func (m *labelMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if input[i] == ')' || input[i] == ';' || input[i] == '\n' {
			break
		}
		matched++
	}
	return matched
}

// digitsMatcher matches a run of decimal digits
type digitsMatcher struct{}

func (m *digitsMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if input[i] < '0' || input[i] > '9' {
			break
		}
		matched++
	}
	return matched
}
