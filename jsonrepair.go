// Package jsonrepair implements a tolerant JSON repair engine. It consumes
// text that may contain an invalid JSON document — the kind of loose,
// JavaScript-flavored, or truncated output commonly produced by LLMs, web
// APIs, and hand-edited config files — and produces a syntactically valid
// JSON document that preserves the author's apparent intent.
//
// Repair is a pure function: no I/O, no logging, no shared state across
// calls. Callers needing a CLI, an HTTP endpoint, or a file watcher should
// look at cmd/jsonrepair, which wraps this package rather than the other
// way around.
package jsonrepair

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
)

// Repair attempts to repair the given JSON string and returns the repaired
// version. It handles common issues such as missing quotes, trailing
// commas, comments, single quotes, Python/JavaScript literals, Markdown
// fences, and truncated JSON. If the JSON contains a defect with no
// reasonable repair, a position-tagged [*RepairError] is returned.
func Repair(text string) (string, error) {
	if len(text) == 0 {
		return "", newUnexpectedEndError(0)
	}

	runes := []rune(text)
	i := 0
	var output strings.Builder

	parseMarkdownCodeBlock(&runes, &i, []string{"```", "[```", "{```"}, &output)

	success, err := parseValue(&runes, &i, &output)
	if err != nil {
		return "", err
	}
	if !success {
		return "", newUnexpectedEndError(len(runes))
	}

	parseMarkdownCodeBlock(&runes, &i, []string{"```", "```]", "```}"}, &output)

	processedComma := parseCharacter(&runes, &i, &output, codeComma)
	if processedComma {
		parseWhitespaceAndSkipComments(&runes, &i, &output, true)
	}

	if i < len(runes) && isStartOfValue(runes[i]) && endsWithCommaOrNewline(output.String()) {
		if !processedComma {
			outputStr := insertBeforeLastWhitespace(output.String(), ",")
			output.Reset()
			output.WriteString(outputStr)
		}
		parseNewlineDelimitedJSON(&runes, &i, &output)
	} else if processedComma {
		outputStr := stripLastOccurrence(output.String(), ",", false)
		output.Reset()
		output.WriteString(outputStr)
	}

	// tolerate excess end brackets/braces left over from an over-closed document
	for i < len(runes) && (runes[i] == codeClosingBrace || runes[i] == codeClosingBracket) {
		i++
		parseWhitespaceAndSkipComments(&runes, &i, &output, true)
	}

	parseWhitespaceAndSkipComments(&runes, &i, &output, true)

	if i >= len(runes) {
		return output.String(), nil
	}

	message := fmt.Sprintf("Unexpected character %q", string(runes[i]))
	return "", newUnexpectedCharacterError(message, i)
}

// parseValue determines the type of the next value in the input text and
// parses it accordingly. Returns (success, error) where error is non-nil
// only for non-repairable issues.
func parseValue(text *[]rune, i *int, output *strings.Builder) (bool, error) {
	parseWhitespaceAndSkipComments(text, i, output, true)

	if processedObj, err := parseObject(text, i, output); err != nil {
		return false, err
	} else if processedObj {
		parseWhitespaceAndSkipComments(text, i, output, true)
		return true, nil
	}

	processed, err := parseArray(text, i, output)
	if err != nil {
		return false, err
	}
	if !processed {
		stringProcessed, err := parseString(text, i, output, false, -1)
		if err != nil {
			return false, err
		}
		processed = stringProcessed ||
			parseNumber(text, i, output) ||
			parseKeywords(text, i, output) ||
			parseUnquotedString(text, i, output) ||
			parseRegex(text, i, output)
	}
	parseWhitespaceAndSkipComments(text, i, output, true)

	return processed, nil
}

// parseWhitespaceAndSkipComments interleaves whitespace and comment parsing
// until neither consumes any more input.
func parseWhitespaceAndSkipComments(text *[]rune, i *int, output *strings.Builder, skipNewline bool) bool {
	start := *i
	parseWhitespace(text, i, output, skipNewline)
	for {
		changed := parseComment(text, i)
		if changed {
			changed = parseWhitespace(text, i, output, skipNewline)
		}
		if !changed {
			break
		}
	}
	return *i > start
}

// parseWhitespace parses whitespace characters, normalizing special Unicode
// spaces to an ordinary ASCII space on output.
func parseWhitespace(text *[]rune, i *int, output *strings.Builder, skipNewline bool) bool {
	start := *i
	var whitespace strings.Builder

	isW := isWhitespace
	if !skipNewline {
		isW = isWhitespaceExceptNewline
	}

	for *i < len(*text) && (isW((*text)[*i]) || isSpecialWhitespace((*text)[*i])) {
		if !isSpecialWhitespace((*text)[*i]) {
			whitespace.WriteRune((*text)[*i])
		} else {
			whitespace.WriteRune(' ')
		}
		*i++
	}

	if whitespace.Len() > 0 {
		output.WriteString(whitespace.String())
		return true
	}
	return *i > start
}

// parseComment parses and silently drops line (//) and block (/* */) comments.
func parseComment(text *[]rune, i *int) bool {
	if *i+1 < len(*text) {
		if (*text)[*i] == codeSlash && (*text)[*i+1] == codeAsterisk {
			for *i < len(*text) && !atEndOfBlockComment(text, i) {
				*i++
			}
			if *i+2 <= len(*text) {
				*i += 2
			}
			return true
		} else if (*text)[*i] == codeSlash && (*text)[*i+1] == codeSlash {
			for *i < len(*text) && (*text)[*i] != codeNewline {
				*i++
			}
			return true
		}
	}
	return false
}

// parseCharacter parses a specific character and adds it to the output if it matches the expected code.
func parseCharacter(text *[]rune, i *int, output *strings.Builder, code rune) bool {
	if *i < len(*text) && (*text)[*i] == code {
		output.WriteRune((*text)[*i])
		*i++
		return true
	}
	return false
}

// skipCharacter skips a specific character in the input text if it matches the expected code.
func skipCharacter(text *[]rune, i *int, code rune) bool {
	if *i < len(*text) && (*text)[*i] == code {
		*i++
		return true
	}
	return false
}

// skipEscapeCharacter skips a backslash in the input text.
func skipEscapeCharacter(text *[]rune, i *int) bool {
	return skipCharacter(text, i, codeBackslash)
}

// skipEllipsis skips an ellipsis (three dots), optionally followed by a comma.
func skipEllipsis(text *[]rune, i *int, output *strings.Builder) bool {
	parseWhitespaceAndSkipComments(text, i, output, true)

	if *i+2 < len(*text) &&
		(*text)[*i] == codeDot &&
		(*text)[*i+1] == codeDot &&
		(*text)[*i+2] == codeDot {
		*i += 3
		parseWhitespaceAndSkipComments(text, i, output, true)
		skipCharacter(text, i, codeComma)
		return true
	}
	return false
}

// parseObject parses an object from the input text.
// Returns (success, error) where error is non-nil for non-repairable issues.
func parseObject(text *[]rune, i *int, output *strings.Builder) (bool, error) {
	if *i < len(*text) && (*text)[*i] == codeOpeningBrace {
		output.WriteRune((*text)[*i])
		*i++
		parseWhitespaceAndSkipComments(text, i, output, true)

		if skipCharacter(text, i, codeComma) {
			parseWhitespaceAndSkipComments(text, i, output, true)
		}

		initial := true
		for *i < len(*text) && (*text)[*i] != codeClosingBrace {
			if !initial {
				iBefore := *i
				oBefore := output.Len()
				processedComma := parseCharacter(text, i, output, codeComma)
				if processedComma {
					// The comma may land after previously written trailing
					// whitespace (e.g. a newline and indentation); move it
					// before that whitespace so pretty-printing survives.
					temp := output.String()
					if strings.HasSuffix(temp, ",") {
						temp = temp[:len(temp)-1]
						temp = insertBeforeLastWhitespace(temp, ",")

						if idx := strings.LastIndex(temp, "\n"); idx != -1 {
							j := idx + 1
							for j < len(temp) && (temp[j] == ' ' || temp[j] == '\t') {
								j++
							}
							if j == len(temp) {
								temp = temp[:idx+1]
							}
						}
						output.Reset()
						output.WriteString(temp)
					}
				} else {
					*i = iBefore
					tempStr := output.String()[:oBefore]
					output.Reset()
					output.WriteString(insertBeforeLastWhitespace(tempStr, ","))
				}
			} else {
				initial = false
			}

			skipEllipsis(text, i, output)

			stringProcessed, err := parseString(text, i, output, false, -1)
			if err != nil {
				return false, err
			}
			processedKey := stringProcessed || parseUnquotedStringWithMode(text, i, output, true)
			if !processedKey {
				if *i >= len(*text) ||
					(*text)[*i] == codeClosingBrace ||
					(*text)[*i] == codeOpeningBrace ||
					(*text)[*i] == codeClosingBracket ||
					(*text)[*i] == codeOpeningBracket ||
					(*text)[*i] == 0 {
					outputStr := stripLastOccurrence(output.String(), ",", false)
					output.Reset()
					output.WriteString(outputStr)
				} else {
					return false, newObjectKeyExpectedError(*i)
				}
				break
			}

			parseWhitespaceAndSkipComments(text, i, output, true)
			processedColon := parseCharacter(text, i, output, codeColon)
			truncatedText := *i >= len(*text)
			if !processedColon {
				if (*i < len(*text) && isStartOfValue((*text)[*i])) || truncatedText {
					outputStr := insertBeforeLastWhitespace(output.String(), ":")
					output.Reset()
					output.WriteString(outputStr)
				} else {
					return false, newColonExpectedError(*i)
				}
			}
			processedValue, err := parseValue(text, i, output)
			if err != nil {
				return false, err
			}
			if !processedValue {
				if processedColon || truncatedText {
					output.WriteString("null")
				} else {
					return false, nil
				}
			}
		}

		if *i < len(*text) && (*text)[*i] == codeClosingBrace {
			output.WriteRune((*text)[*i])
			*i++
		} else {
			outputStr := insertBeforeLastWhitespace(output.String(), "}")
			output.Reset()
			output.WriteString(outputStr)
		}
		return true, nil
	}
	return false, nil
}

// parseArray parses an array from the input text.
// Returns (success, error) where error is non-nil for non-repairable issues.
func parseArray(text *[]rune, i *int, output *strings.Builder) (bool, error) {
	if *i >= len(*text) {
		return false, nil
	}

	if (*text)[*i] == codeOpeningBracket {
		output.WriteRune((*text)[*i])
		*i++
		parseWhitespaceAndSkipComments(text, i, output, true)

		if skipCharacter(text, i, codeComma) {
			parseWhitespaceAndSkipComments(text, i, output, true)
		}

		initial := true
		for *i < len(*text) && (*text)[*i] != codeClosingBracket {
			if !initial {
				iBefore := *i
				oBefore := output.Len()
				parseWhitespaceAndSkipComments(text, i, output, true)

				processedComma := parseCharacter(text, i, output, codeComma)
				if !processedComma {
					*i = iBefore
					tempStr := output.String()
					output.Reset()
					output.WriteString(tempStr[:oBefore])

					outputStr := insertBeforeLastWhitespace(output.String(), ",")
					output.Reset()
					output.WriteString(outputStr)
				}
			} else {
				initial = false
			}

			skipEllipsis(text, i, output)

			processedValue, err := parseValue(text, i, output)
			if err != nil {
				return false, err
			}

			// A trailing comma that ended up *inside* a string's closing
			// quote (e.g. "hello,world,"2) actually belongs between two
			// array items. Don't touch a string that is literally just a
			// comma (",") since that's a valid standalone value.
			if processedValue {
				outputStr := output.String()
				if strings.HasSuffix(outputStr, ",\"") {
					lastQuote := strings.LastIndex(outputStr[:len(outputStr)-2], "\"")
					if lastQuote != -1 && len(outputStr)-2-lastQuote > 2 {
						cleanedStr := outputStr[:len(outputStr)-2] + "\""
						output.Reset()
						output.WriteString(cleanedStr)
					}
				}
			}

			if !processedValue {
				outputStr := stripLastOccurrence(output.String(), ",", false)
				output.Reset()
				output.WriteString(outputStr)
				break
			}
		}

		if *i < len(*text) && (*text)[*i] == codeClosingBracket {
			output.WriteRune((*text)[*i])
			*i++
		} else {
			outputStr := insertBeforeLastWhitespace(output.String(), "]")
			output.Reset()
			output.WriteString(outputStr)
		}
		return true, nil
	}
	return false, nil
}

// parseNewlineDelimitedJSON parses Newline Delimited JSON (NDJSON) from the
// input text and wraps the accumulated values into a single JSON array.
func parseNewlineDelimitedJSON(text *[]rune, i *int, output *strings.Builder) {
	initial := true
	processedValue := true

	for processedValue {
		if !initial {
			processedComma := parseCharacter(text, i, output, codeComma)
			if !processedComma {
				outputStr := insertBeforeLastWhitespace(output.String(), ",")
				output.Reset()
				output.WriteString(outputStr)
			}
		} else {
			initial = false
		}

		var err error
		processedValue, err = parseValue(text, i, output)
		if err != nil {
			processedValue = false
		}
	}

	if !processedValue {
		outputStr := stripLastOccurrence(output.String(), ",", false)
		output.Reset()
		output.WriteString(outputStr)
	}

	outputStr := fmt.Sprintf("[\n%s\n]", output.String())
	output.Reset()
	output.WriteString(outputStr)
}

// parseString parses a string from the input text, handling quote
// equivalence classes, escape sequences, and ambiguous quote placement via
// a small bounded retry loop (at most three passes per string).
// Returns (success, error) where error is non-nil for non-repairable issues.
func parseString(text *[]rune, i *int, output *strings.Builder, stopAtDelimiter bool, stopAtIndex int) (bool, error) {
	if *i >= len(*text) {
		return false, nil
	}

	skipEscapeChars := (*text)[*i] == codeBackslash
	if skipEscapeChars {
		*i++
	}

	if *i < len(*text) && isQuote((*text)[*i]) {
		isEndQuote := func(r rune) bool { return r == (*text)[*i] }
		switch {
		case isDoubleQuote((*text)[*i]):
			isEndQuote = isDoubleQuote
		case isSingleQuote((*text)[*i]):
			isEndQuote = isSingleQuote
		case isSingleQuoteLike((*text)[*i]):
			isEndQuote = isSingleQuoteLike
		case isDoubleQuoteLike((*text)[*i]):
			isEndQuote = isDoubleQuoteLike
		}

		iBefore := *i
		oBefore := output.Len()

		var str strings.Builder
		str.WriteRune('"')
		*i++

		for {
			if *i >= len(*text) {
				iPrev := prevNonWhitespaceIndex(*text, *i-1)
				if !stopAtDelimiter && iPrev != -1 && isDelimiter((*text)[iPrev]) {
					// The text ends with a delimiter, like ["hello]; the
					// missing end quote should be inserted before it. Retry
					// stopping at the first next delimiter.
					*i = iBefore
					tempStr := output.String()
					output.Reset()
					output.WriteString(tempStr[:oBefore])
					return parseString(text, i, output, true, -1)
				}

				strStr := insertBeforeLastWhitespace(str.String(), "\"")
				output.WriteString(strStr)
				return true, nil
			}

			if stopAtIndex != -1 && *i == stopAtIndex {
				strStr := insertBeforeLastWhitespace(str.String(), "\"")
				output.WriteString(strStr)
				return true, nil
			}

			switch {
			case isEndQuote((*text)[*i]):
				iQuote := *i
				oQuote := str.Len()
				str.WriteRune('"')
				*i++
				output.WriteString(str.String())

				iAfterWhitespace := *i
				var tempWhitespace strings.Builder
				parseWhitespaceAndSkipComments(text, &iAfterWhitespace, &tempWhitespace, false)

				if stopAtDelimiter ||
					iAfterWhitespace >= len(*text) ||
					isDelimiter((*text)[iAfterWhitespace]) ||
					isQuote((*text)[iAfterWhitespace]) ||
					isDigit((*text)[iAfterWhitespace]) {
					// The quote is followed by end of text, a delimiter, or
					// the next value — it genuinely closes the string.
					*i = iAfterWhitespace
					output.WriteString(tempWhitespace.String())
					parseConcatenatedString(text, i, output)
					return true, nil
				}

				iPrevChar := prevNonWhitespaceIndex(*text, iQuote-1)
				if iPrevChar != -1 {
					prevChar := (*text)[iPrevChar]
					switch {
					case prevChar == ',':
						*i = iBefore
						tempStr := output.String()
						output.Reset()
						output.WriteString(tempStr[:oBefore])
						return parseString(text, i, output, false, iPrevChar)
					case isDelimiter(prevChar):
						*i = iBefore
						tempStr := output.String()
						output.Reset()
						output.WriteString(tempStr[:oBefore])
						return parseString(text, i, output, true, -1)
					}
				}

				// Revert to right after the quote and continue: it was an
				// unescaped quote inside the string content.
				tempStr := output.String()
				output.Reset()
				output.WriteString(tempStr[:oBefore])
				*i = iQuote + 1

				revertedStr := str.String()[:oQuote] + "\\\""
				str.Reset()
				str.WriteString(revertedStr)
			case stopAtDelimiter && isUnquotedStringDelimiter((*text)[*i]):
				if *i > 0 && (*text)[*i-1] == ':' &&
					regexURLStart.MatchString(string((*text)[iBefore+1:min(*i+2, len(*text))])) {
					for *i < len(*text) && isURLChar((*text)[*i]) {
						str.WriteRune((*text)[*i])
						*i++
					}
				}

				strStr := insertBeforeLastWhitespace(str.String(), "\"")
				output.WriteString(strStr)
				parseConcatenatedString(text, i, output)
				return true, nil
			case (*text)[*i] == '\\':
				if *i+1 >= len(*text) {
					strStr := insertBeforeLastWhitespace(str.String(), "\"")
					output.WriteString(strStr)
					*i++
					return true, nil
				}

				char := (*text)[*i+1]
				if _, ok := escapeCharacters[char]; ok {
					str.WriteRune((*text)[*i])
					str.WriteRune((*text)[*i+1])
					*i += 2
				} else if char == 'u' {
					j := 2
					hexCount := 0
					for j < 6 && *i+j < len(*text) && isHex((*text)[*i+j]) {
						j++
						hexCount++
					}

					switch {
					case hexCount == 4:
						str.WriteString(string((*text)[*i : *i+6]))
						*i += 6
					case *i+j >= len(*text):
						// the text ends inside the escape: drop it and end
						// the string here
						*i = len(*text)
					default:
						endJ := 2
						for endJ < 6 && *i+endJ < len(*text) {
							nextChar := (*text)[*i+endJ]
							if nextChar == '"' || nextChar == '\'' || isWhitespace(nextChar) {
								break
							}
							endJ++
						}

						chars := string((*text)[*i : *i+endJ])
						escapedChars := strings.ReplaceAll(chars, "\\", "\\\\")

						if hexCount < 4 && endJ == 2+hexCount {
							msg := fmt.Sprintf("Invalid unicode character \"%s\"\"", escapedChars)
							return false, newInvalidUnicodeError(msg, *i)
						}
						msg := fmt.Sprintf("Invalid unicode character \"%s\"", escapedChars)
						return false, newInvalidUnicodeError(msg, *i)
					}
				} else {
					if stopAtIndex != -1 && *i == stopAtIndex-1 && isDelimiter((*text)[stopAtIndex]) {
						// stop before the delimiter that triggered reparsing, to avoid infinite recursion
						output.WriteString(insertBeforeLastWhitespace(str.String(), "\""))
						*i = stopAtIndex
						return true, nil
					}

					// drop the backslash, keep the escaped letter verbatim
					str.WriteRune(char)
					*i += 2
				}
			default:
				char := (*text)[*i]
				switch {
				case char == '"' && (*text)[*i-1] != '\\':
					str.WriteString("\\\"")
					*i++
				case isControlCharacter(char):
					if replacement, ok := controlCharacters[char]; ok {
						str.WriteString(replacement)
					}
					*i++
				default:
					if !isValidStringCharacter(char) {
						message := fmt.Sprintf("Invalid character \"\\u%04x\"", char)
						return false, newInvalidCharacterError(message, *i)
					}
					str.WriteRune(char)
					*i++
				}
			}

			if skipEscapeChars {
				skipEscapeCharacter(text, i)
			}
		}
	}

	return false, nil
}

// parseConcatenatedString repairs concatenated string literals like
// "hello" + "world" into a single string.
func parseConcatenatedString(text *[]rune, i *int, output *strings.Builder) bool {
	processed := false

	iBeforeWhitespace := *i
	oBeforeWhitespace := output.Len()
	parseWhitespaceAndSkipComments(text, i, output, true)

	for *i < len(*text) && (*text)[*i] == '+' {
		processed = true
		*i++
		parseWhitespaceAndSkipComments(text, i, output, true)

		outputStr := stripLastOccurrence(output.String(), "\"", true)
		output.Reset()
		output.WriteString(outputStr)
		start := output.Len()

		stringProcessed, err := parseString(text, i, output, false, -1)
		if err != nil {
			// concatenation is best-effort: a malformed continuation just stops
			stringProcessed = false
		}
		if stringProcessed {
			outputStr = output.String()
			if len(outputStr) > start {
				output.Reset()
				output.WriteString(removeAtIndex(outputStr, start, 1))
			}
		} else {
			outputStr = insertBeforeLastWhitespace(output.String(), "\"")
			output.Reset()
			output.WriteString(outputStr)
		}
	}

	if !processed {
		*i = iBeforeWhitespace
		tempStr := output.String()
		output.Reset()
		output.WriteString(tempStr[:oBeforeWhitespace])
	}

	return processed
}

// parseNumber parses a number from the input text, tolerating truncated
// numbers and quoting invalid leading-zero integers as strings.
func parseNumber(text *[]rune, i *int, output *strings.Builder) bool {
	start := *i
	if *i < len(*text) && (*text)[*i] == codeMinus {
		*i++
		if atEndOfNumber(text, i) {
			repairNumberEndingWithNumericSymbol(text, start, i, output)
			return true
		}
		if !isDigit((*text)[*i]) {
			*i = start
			return false
		}
	}

	for *i < len(*text) && isDigit((*text)[*i]) {
		*i++
	}

	if *i < len(*text) && (*text)[*i] == codeDot {
		*i++
		if atEndOfNumber(text, i) {
			repairNumberEndingWithNumericSymbol(text, start, i, output)
			return true
		}
		if !isDigit((*text)[*i]) {
			*i = start
			return false
		}
		for *i < len(*text) && isDigit((*text)[*i]) {
			*i++
		}
	}

	if *i < len(*text) && ((*text)[*i] == codeLowercaseE || (*text)[*i] == codeUppercaseE) {
		*i++
		if *i < len(*text) && ((*text)[*i] == codeMinus || (*text)[*i] == codePlus) {
			*i++
		}
		if atEndOfNumber(text, i) {
			repairNumberEndingWithNumericSymbol(text, start, i, output)
			return true
		}
		if !isDigit((*text)[*i]) {
			*i = start
			return false
		}
		for *i < len(*text) && isDigit((*text)[*i]) {
			*i++
		}
	}

	if !atEndOfNumber(text, i) {
		*i = start
		return false
	}

	if *i > start {
		num := string((*text)[start:*i])
		if leadingZeroRe.MatchString(num) {
			output.WriteByte('"')
			output.WriteString(num)
			output.WriteByte('"')
		} else {
			output.WriteString(num)
		}
		return true
	}
	return false
}

// parseKeywords parses JSON keywords (true, false, null) and the Python
// equivalents (True, False, None), normalizing the latter to JSON case.
func parseKeywords(text *[]rune, i *int, output *strings.Builder) bool {
	return parseKeyword(text, i, output, "true", "true") ||
		parseKeyword(text, i, output, "false", "false") ||
		parseKeyword(text, i, output, "null", "null") ||
		parseKeyword(text, i, output, "True", "true") ||
		parseKeyword(text, i, output, "False", "false") ||
		parseKeyword(text, i, output, "None", "null")
}

// parseKeyword matches a specific literal keyword at the cursor.
func parseKeyword(text *[]rune, i *int, output *strings.Builder, name, value string) bool {
	if len(*text)-*i >= len(name) && string((*text)[*i:*i+len(name)]) == name {
		output.WriteString(value)
		*i += len(name)
		return true
	}
	return false
}

// parseUnquotedString parses and repairs unquoted strings, MongoDB-style
// function wrappers (NumberLong("2")), and JSONP callbacks (callback({...});).
func parseUnquotedString(text *[]rune, i *int, output *strings.Builder) bool {
	return parseUnquotedStringWithMode(text, i, output, false)
}

// parseUnquotedStringWithMode is parseUnquotedString parameterized by
// whether the caller is parsing an object key (in which case a colon also
// terminates the run).
func parseUnquotedStringWithMode(text *[]rune, i *int, output *strings.Builder, isKey bool) bool {
	start := *i

	if *i >= len(*text) {
		return false
	}

	if isFunctionNameCharStart((*text)[*i]) {
		for *i < len(*text) && isFunctionNameChar((*text)[*i]) {
			*i++
		}

		j := *i
		for j < len(*text) && isWhitespace((*text)[j]) {
			j++
		}

		if j < len(*text) && (*text)[j] == codeOpenParenthesis {
			// MongoDB function call (NumberLong("2")) or JSONP wrapper
			// (callback({...});): discard the wrapper, keep the argument.
			*i = j + 1

			// Errors inside the wrapped value are not critical here: the
			// function call itself is being stripped regardless.
			_, _ = parseValue(text, i, output)

			if *i < len(*text) && (*text)[*i] == codeCloseParenthesis {
				*i++
				if *i < len(*text) && (*text)[*i] == codeSemicolon {
					*i++
				}
			}

			return true
		}
	}

	isURL := false
	if !isKey {
		switch {
		case start+8 <= len(*text) && string((*text)[start:start+8]) == "https://":
			isURL = true
		case start+7 <= len(*text) && string((*text)[start:start+7]) == "http://":
			isURL = true
		case start+6 <= len(*text) && string((*text)[start:start+6]) == "ftp://":
			isURL = true
		}
	}

	if isURL {
		for *i < len(*text) && isURLChar((*text)[*i]) {
			*i++
		}
	} else {
		for *i < len(*text) && !isUnquotedStringDelimiter((*text)[*i]) && !isQuote((*text)[*i]) {
			if isKey && (*text)[*i] == codeColon {
				break
			}
			*i++
		}
	}

	if *i > start {
		for *i > start && isWhitespace((*text)[*i-1]) {
			*i--
		}

		symbol := string((*text)[start:*i])

		if symbol == "undefined" {
			output.WriteString("null")
		} else {
			var repairedSymbol strings.Builder
			for _, char := range symbol {
				if isSingleQuoteLike(char) || isDoubleQuoteLike(char) {
					repairedSymbol.WriteRune('"')
				} else {
					repairedSymbol.WriteRune(char)
				}
			}
			output.WriteByte('"')
			output.WriteString(repairedSymbol.String())
			output.WriteByte('"')
		}

		if *i < len(*text) && (*text)[*i] == codeDoubleQuote {
			*i++
		}

		return true
	}
	return false
}

// parseRegex parses a regular expression literal like /pattern/flags and
// wraps it in a JSON string.
func parseRegex(text *[]rune, i *int, output *strings.Builder) bool {
	if *i < len(*text) && (*text)[*i] == codeSlash {
		start := *i
		*i++

		for *i < len(*text) && ((*text)[*i] != codeSlash || (*text)[*i-1] == codeBackslash) {
			*i++
		}

		if *i < len(*text) && (*text)[*i] == codeSlash {
			*i++
		}

		// json.Marshal properly escapes quotes, backslashes, and other
		// special characters, preventing injection when the repaired JSON
		// is later evaluated by a loose consumer.
		regexContent := string((*text)[start:*i])
		jsonBytes, _ := json.Marshal(regexContent)
		output.Write(jsonBytes)
		return true
	}
	return false
}

// parseMarkdownCodeBlock skips a leading/trailing Markdown fence (``` or
// ```json, ```], ```}) and any language tag that follows it. Whitespace
// after the fence is copied to the output, special spaces as ASCII space.
func parseMarkdownCodeBlock(text *[]rune, i *int, blocks []string, output *strings.Builder) bool {
	if skipMarkdownCodeBlock(text, i, blocks, output) {
		if *i < len(*text) && isFunctionNameCharStart((*text)[*i]) {
			for *i < len(*text) && isFunctionNameChar((*text)[*i]) {
				*i++
			}
		}

		for *i < len(*text) && (isWhitespace((*text)[*i]) || isSpecialWhitespace((*text)[*i])) {
			if isWhitespace((*text)[*i]) {
				output.WriteRune((*text)[*i])
			} else {
				output.WriteRune(' ')
			}
			*i++
		}

		return true
	}
	return false
}

// skipMarkdownCodeBlock checks if the cursor is at a Markdown fence marker
// and, if so, skips past it.
func skipMarkdownCodeBlock(text *[]rune, i *int, blocks []string, output *strings.Builder) bool {
	parseWhitespace(text, i, output, true)

	for _, block := range blocks {
		blockRunes := []rune(block)
		end := *i + len(blockRunes)
		if end <= len(*text) {
			match := true
			for j := range len(blockRunes) {
				if (*text)[*i+j] != blockRunes[j] {
					match = false
					break
				}
			}
			if match {
				*i = end
				return true
			}
		}
	}
	return false
}
