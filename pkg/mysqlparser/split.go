package mysqlparser

import (
	"log/slog"
	"regexp"

	"github.com/antlr4-go/antlr/v4"
	parser "github.com/gedhean/mysql-parser"
	"github.com/pkg/errors"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

var (
	delimiterRegex        = regexp.MustCompile(`(?i)^\s*DELIMITER\s+`)
	delimiterExtractRegex = regexp.MustCompile(`(?i)^\s*DELIMITER\s+(?P<DELIMITER>[^\s\\]+)\s*`)
)

// SingleSQL is one top-level statement cut from a document.
type SingleSQL struct {
	Text string
	// Origin is the position of the first character of Text.
	Origin types.Position
	// Empty is true when the statement holds only comments and semicolons.
	Empty bool
}

// SplitSQL cuts a document into top-level statements. Statements end at `;`,
// except inside BEGIN...END style blocks, or at the active DELIMITER. When
// the blocks do not balance, every `;` ends a statement, so a stray END only
// spoils its own statement.
func SplitSQL(statement string) ([]SingleSQL, error) {
	lexer := parser.NewMySQLLexer(antlr.NewInputStream(statement))
	lexerErrorListener := &ParseErrorListener{
		DefaultErrorListener: antlr.NewDefaultErrorListener(),
	}
	lexer.RemoveErrorListeners()
	lexer.AddErrorListener(lexerErrorListener)
	stream := antlr.NewCommonTokenStream(lexer, antlr.TokenDefaultChannel)

	list, err := splitMySQLStatement(stream)
	if lexerErrorListener.Err != nil {
		return nil, lexerErrorListener.Err
	}
	if err != nil {
		slog.Debug("failed to split statements by blocks, splitting at every semicolon", "error", err)
		list = splitAtSemicolons(stream)
	}
	return list, nil
}

// IsDelimiter returns true if the statement is a delimiter statement.
func IsDelimiter(stmt string) bool {
	return delimiterRegex.MatchString(stmt)
}

// ExtractDelimiter extracts the delimiter from the delimiter statement.
func ExtractDelimiter(stmt string) (string, error) {
	matchList := delimiterExtractRegex.FindStringSubmatch(stmt)
	index := delimiterExtractRegex.SubexpIndex("DELIMITER")
	if index >= 0 && index < len(matchList) {
		return matchList[index], nil
	}
	return "", errors.Errorf("cannot extract delimiter from %q", stmt)
}

func newSingleSQL(text string, tokens []antlr.Token) SingleSQL {
	return SingleSQL{
		Text:   text,
		Origin: tokenPosition(tokens[0]),
		Empty:  isEmpty(tokens),
	}
}

func splitMySQLStatement(stream *antlr.CommonTokenStream) ([]SingleSQL, error) {
	stream.Fill()
	if hasDelimiterStatement(stream) {
		return splitDelimiterModeSQL(stream)
	}

	tokens := stream.GetAllTokens()
	semicolons, err := statementBoundaries(tokens)
	if err != nil {
		return nil, err
	}

	var result []SingleSQL
	start := 0
	for _, pos := range semicolons {
		result = append(result, newSingleSQL(
			stream.GetTextFromTokens(tokens[start], tokens[pos]),
			tokens[start:pos+1],
		))
		start = pos + 1
	}
	return appendTrailingStatement(result, stream, tokens, start), nil
}

// appendTrailingStatement adds the last statement, which may end with EOF
// instead of a semicolon.
func appendTrailingStatement(result []SingleSQL, stream *antlr.CommonTokenStream, tokens []antlr.Token, start int) []SingleSQL {
	eofPos := len(tokens) - 1
	if start >= eofPos {
		return result
	}
	return append(result, newSingleSQL(
		stream.GetTextFromTokens(tokens[start], tokens[eofPos-1]),
		tokens[start:eofPos],
	))
}

func splitDelimiterModeSQL(stream *antlr.CommonTokenStream) ([]SingleSQL, error) {
	var result []SingleSQL
	delimiter := ";"
	tokens := stream.GetAllTokens()
	start := 0

	i := 0
	for i < len(tokens) {
		token := tokens[i]
		if token.GetChannel() == antlr.TokenDefaultChannel && token.GetTokenType() == parser.MySQLLexerDELIMITER_SYMBOL {
			newStart, delimiterStatement := extractDelimiterStatement(stream, i)
			var err error
			delimiter, err = ExtractDelimiter(delimiterStatement)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to extract delimiter from statement: %s", delimiterStatement)
			}
			start = newStart
			i = newStart
			continue
		}

		if delimiter == ";" && token.GetTokenType() == parser.MySQLLexerSEMICOLON_SYMBOL {
			result = append(result, newSingleSQL(
				stream.GetTextFromTokens(tokens[start], tokens[i]),
				tokens[start:i+1],
			))
			i++
			start = i
			continue
		}

		if token.GetChannel() != antlr.TokenDefaultChannel {
			i++
			continue
		}

		if newStart, ok := tryMatchDelimiter(stream, i, delimiter); ok {
			// Use a single semicolon instead of the user defined delimiter.
			result = append(result, newSingleSQL(
				stream.GetTextFromTokens(tokens[start], tokens[i-1])+";",
				tokens[start:i],
			))
			i = newStart
			start = newStart
			continue
		}

		i++
	}

	return appendTrailingStatement(result, stream, tokens, start), nil
}

func tryMatchDelimiter(stream *antlr.CommonTokenStream, pos int, delimiter string) (int, bool) {
	matchPos := 0
	length := len(stream.GetAllTokens())
	for i := pos; i < length; i++ {
		text := stream.GetTextFromInterval(antlr.Interval{Start: i, Stop: i})
		for j := 0; j < len(text); j++ {
			if j+matchPos >= len(delimiter) || text[j] != delimiter[j+matchPos] {
				return 0, false
			}
			matchPos++
			if matchPos == len(delimiter) {
				return i + 1, true
			}
		}
	}

	return 0, false
}

func extractDelimiterStatement(stream *antlr.CommonTokenStream, pos int) (int, string) {
	length := len(stream.GetAllTokens())
	for i := pos; i < length; i++ {
		if (stream.Get(i).GetTokenType() == parser.MySQLLexerWHITESPACE && stream.Get(i).GetText() == "\n") ||
			(stream.Get(i).GetTokenType() == antlr.TokenEOF) {
			return i + 1, stream.GetTextFromTokens(stream.Get(pos), stream.Get(i-1))
		}
	}

	return length, stream.GetTextFromTokens(stream.Get(pos), stream.Get(length-1))
}

func hasDelimiterStatement(stream *antlr.CommonTokenStream) bool {
	for _, token := range stream.GetAllTokens() {
		if token.GetChannel() == antlr.TokenDefaultChannel && token.GetTokenType() == parser.MySQLLexerDELIMITER_SYMBOL {
			return true
		}
	}
	return false
}

// splitAtSemicolons cuts the document at every semicolon, ignoring blocks.
func splitAtSemicolons(stream *antlr.CommonTokenStream) []SingleSQL {
	var result []SingleSQL
	tokens := stream.GetAllTokens()
	start := 0
	for i, token := range tokens {
		if token.GetTokenType() != parser.MySQLLexerSEMICOLON_SYMBOL {
			continue
		}
		result = append(result, newSingleSQL(
			stream.GetTextFromTokens(tokens[start], token),
			tokens[start:i+1],
		))
		start = i + 1
	}
	return appendTrailingStatement(result, stream, tokens, start)
}

type openParenthesis struct {
	tokenType int
	pos       int
}

var errUnbalancedBlock = errors.New("invalid statement: failed to split multiple statements")

// statementBoundaries returns the indexes of the semicolons that end a
// top-level statement. Semicolons inside compound blocks are dropped.
func statementBoundaries(tokens []antlr.Token) ([]int, error) {
	var beginCaseStack, ifStack, loopStack, whileStack, repeatStack []*openParenthesis
	var semicolonStack []int

	for i, token := range tokens {
		prev := getDefaultChannelTokenType(tokens, i, -1)
		next := getDefaultChannelTokenType(tokens, i, 1)
		opened := &openParenthesis{tokenType: token.GetTokenType(), pos: i}

		switch token.GetTokenType() {
		case parser.MySQLParserBEGIN_SYMBOL:
			// BEGIN [WORK] starts a transaction, XA BEGIN a distributed one.
			if next == parser.MySQLParserWORK_SYMBOL || next == parser.MySQLParserSEMICOLON_SYMBOL ||
				next == parser.MySQLParserEOF || prev == parser.MySQLParserXA_SYMBOL {
				continue
			}
			beginCaseStack = append(beginCaseStack, opened)
		case parser.MySQLParserCASE_SYMBOL:
			if prev != parser.MySQLParserEND_SYMBOL {
				beginCaseStack = append(beginCaseStack, opened)
			}
		case parser.MySQLParserIF_SYMBOL:
			// IF EXISTS and IF NOT EXISTS open no block.
			if prev == parser.MySQLParserEND_SYMBOL || next == parser.MySQLParserEXISTS_SYMBOL ||
				(next == parser.MySQLParserNOT_SYMBOL && getDefaultChannelTokenType(tokens, i, 2) == parser.MySQLParserEXISTS_SYMBOL) {
				continue
			}
			ifStack = append(ifStack, opened)
		case parser.MySQLParserLOOP_SYMBOL:
			if prev != parser.MySQLParserEND_SYMBOL {
				loopStack = append(loopStack, opened)
			}
		case parser.MySQLParserWHILE_SYMBOL:
			if prev != parser.MySQLParserEND_SYMBOL {
				whileStack = append(whileStack, opened)
			}
		case parser.MySQLParserREPEAT_SYMBOL:
			if prev != parser.MySQLParserUNTIL_SYMBOL {
				repeatStack = append(repeatStack, opened)
			}
		case parser.MySQLParserEND_SYMBOL:
			if prev == parser.MySQLParserXA_SYMBOL {
				continue
			}

			switch next {
			case parser.MySQLParserIF_SYMBOL:
				// IF(expr1,expr2,expr3) opens no block, so the outermost IF
				// is the one END IF closes.
				if len(ifStack) == 0 {
					return nil, errUnbalancedBlock
				}
				semicolonStack = popSemicolonStack(semicolonStack, ifStack[0].pos)
				ifStack = ifStack[:len(ifStack)-1]
			case parser.MySQLParserLOOP_SYMBOL:
				if len(loopStack) == 0 {
					return nil, errUnbalancedBlock
				}
				semicolonStack = popSemicolonStack(semicolonStack, loopStack[len(loopStack)-1].pos)
				loopStack = loopStack[:len(loopStack)-1]
			case parser.MySQLParserWHILE_SYMBOL:
				if len(whileStack) == 0 {
					return nil, errUnbalancedBlock
				}
				semicolonStack = popSemicolonStack(semicolonStack, whileStack[len(whileStack)-1].pos)
				whileStack = whileStack[:len(whileStack)-1]
			case parser.MySQLParserREPEAT_SYMBOL:
				// Same as IF: REPEAT(str,count) opens no block.
				if len(repeatStack) == 0 {
					return nil, errUnbalancedBlock
				}
				semicolonStack = popSemicolonStack(semicolonStack, repeatStack[0].pos)
				repeatStack = repeatStack[:len(repeatStack)-1]
			default:
				// BEGIN ... END, CASE ... END and END CASE.
				if len(beginCaseStack) == 0 {
					return nil, errUnbalancedBlock
				}
				semicolonStack = popSemicolonStack(semicolonStack, beginCaseStack[len(beginCaseStack)-1].pos)
				beginCaseStack = beginCaseStack[:len(beginCaseStack)-1]
			}
		case parser.MySQLParserSEMICOLON_SYMBOL:
			semicolonStack = append(semicolonStack, i)
		}
	}
	// IF and REPEAT may be left open by their function forms.
	if len(beginCaseStack)+len(loopStack)+len(whileStack) > 0 {
		return nil, errUnbalancedBlock
	}
	return semicolonStack, nil
}

func popSemicolonStack(stack []int, openParPos int) []int {
	if len(stack) == 0 {
		return stack
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] < openParPos {
			return stack[:i+1]
		}
	}

	return []int{}
}

func tokenPosition(token antlr.Token) types.Position {
	// From antlr4, the line is ONE based, and the column is ZERO based.
	return types.Position{
		Line:   token.GetLine(),
		Column: token.GetColumn() + 1,
	}
}

func getDefaultChannelTokenType(tokens []antlr.Token, base int, offset int) int {
	current := base
	step := 1
	remaining := offset
	if offset < 0 {
		step = -1
		remaining = -offset
	}
	for remaining != 0 {
		current += step
		if current < 0 || current >= len(tokens) {
			return antlr.TokenEOF
		}

		if tokens[current].GetChannel() == antlr.TokenDefaultChannel {
			remaining--
		}
	}

	return tokens[current].GetTokenType()
}

func isEmpty(tokens []antlr.Token) bool {
	for _, token := range tokens {
		if token.GetChannel() == antlr.TokenDefaultChannel &&
			token.GetTokenType() != parser.MySQLLexerSEMICOLON_SYMBOL &&
			token.GetTokenType() != parser.MySQLParserEOF {
			return false
		}
	}
	return true
}
