package selq

import (
	"errors"
	"strings"
)

// esc is the escape character inside selector text.
const esc = '\\'

// TokenQueue is a cursor over selector text with consumption
// primitives for the query parser. The cursor only moves forward;
// lookahead is by prefix tests against the unread remainder.
type TokenQueue struct {
	queue string
	pos   int
}

// NewTokenQueue returns a new queue over data.
func NewTokenQueue(data string) *TokenQueue {
	return &TokenQueue{queue: data}
}

// IsEmpty reports whether the cursor has reached the end of the input.
func (q *TokenQueue) IsEmpty() bool {
	return q.pos >= len(q.queue)
}

// Remainder returns the unread input without consuming it.
func (q *TokenQueue) Remainder() string {
	return q.queue[q.pos:]
}

// Peek returns the next character without consuming it, or 0 at EOF.
func (q *TokenQueue) Peek() byte {
	if q.IsEmpty() {
		return 0
	}
	return q.queue[q.pos]
}

// Consume consumes and returns the next character.
func (q *TokenQueue) Consume() byte {
	c := q.queue[q.pos]
	q.pos++
	return c
}

// Matches reports whether the unread input starts with seq.
// The test is case-sensitive and does not consume.
func (q *TokenQueue) Matches(seq string) bool {
	return strings.HasPrefix(q.queue[q.pos:], seq)
}

// MatchesAny reports whether the unread input starts with any of seqs.
func (q *TokenQueue) MatchesAny(seqs ...string) bool {
	for _, seq := range seqs {
		if q.Matches(seq) {
			return true
		}
	}
	return false
}

// MatchChomp consumes seq if the unread input starts with it, and
// reports whether it did.
func (q *TokenQueue) MatchChomp(seq string) bool {
	if q.Matches(seq) {
		q.pos += len(seq)
		return true
	}
	return false
}

// MatchesWord reports whether the next character begins an identifier.
func (q *TokenQueue) MatchesWord() bool {
	return !q.IsEmpty() && isWordChar(q.queue[q.pos])
}

// ConsumeWhitespace consumes any run of ASCII whitespace and reports
// whether at least one character was consumed.
func (q *TokenQueue) ConsumeWhitespace() bool {
	seen := false
	for !q.IsEmpty() && isWhitespace(q.queue[q.pos]) {
		q.pos++
		seen = true
	}
	return seen
}

// ConsumeCSSIdentifier consumes a run of CSS identifier characters
// (letters, digits, '-' and '_'). Returns "" if the next character is
// not one; callers validate non-empty.
func (q *TokenQueue) ConsumeCSSIdentifier() string {
	start := q.pos
	for !q.IsEmpty() && isIdentChar(q.queue[q.pos]) {
		q.pos++
	}
	return q.queue[start:q.pos]
}

// ConsumeElementSelector consumes a tag name: identifier characters
// plus '|' (namespace separator) and '*'.
func (q *TokenQueue) ConsumeElementSelector() string {
	start := q.pos
	for !q.IsEmpty() && isElementChar(q.queue[q.pos]) {
		q.pos++
	}
	return q.queue[start:q.pos]
}

// ConsumeTo consumes up to, but not including, the first occurrence of
// seq and returns the consumed text. If seq never occurs, the rest of
// the input is consumed.
func (q *TokenQueue) ConsumeTo(seq string) string {
	start := q.pos
	if i := strings.Index(q.queue[q.pos:], seq); i >= 0 {
		q.pos += i
	} else {
		q.pos = len(q.queue)
	}
	return q.queue[start:q.pos]
}

// ConsumeToAny consumes up to the first position where any of seqs
// begins and returns the consumed text.
func (q *TokenQueue) ConsumeToAny(seqs ...string) string {
	start := q.pos
	for !q.IsEmpty() && !q.MatchesAny(seqs...) {
		q.pos++
	}
	return q.queue[start:q.pos]
}

// ChompTo consumes up to seq, then consumes seq itself, returning the
// text before seq.
func (q *TokenQueue) ChompTo(seq string) string {
	data := q.ConsumeTo(seq)
	q.MatchChomp(seq)
	return data
}

// ChompBalanced consumes a balanced group. The cursor must be at an
// open character; the group is consumed through its matching close,
// tracking nesting depth, and the inner text is returned. Open and
// close characters inside single or double quoted runs do not count
// toward the depth, and a character preceded by a backslash never does
// (a backslash that is itself escaped still counts as an escape). Returns an error if the input ends before the group
// closes.
func (q *TokenQueue) ChompBalanced(open, close byte) (string, error) {
	start, end := -1, -1
	depth := 0
	var last byte
	inSingleQuote, inDoubleQuote := false, false

	for {
		if q.IsEmpty() {
			break
		}
		c := q.Consume()
		if last != esc {
			if c == '\'' && c != open && !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			} else if c == '"' && c != open && !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			}
			if inSingleQuote || inDoubleQuote {
				last = c
				continue
			}
			if c == open {
				depth++
				if start == -1 {
					start = q.pos
				}
			} else if c == close {
				depth--
			}
		}
		if depth > 0 && last != 0 {
			end = q.pos
		}
		last = c
		if depth <= 0 {
			break
		}
	}
	if depth > 0 {
		return "", errors.New("did not find balanced marker")
	}
	if end == -1 {
		return "", nil
	}
	return q.queue[start:end], nil
}

// Unescape removes backslash escapes: each `\X` becomes `X`.
func Unescape(in string) string {
	if !strings.ContainsRune(in, esc) {
		return in
	}
	var out strings.Builder
	out.Grow(len(in))
	var last byte
	for i := 0; i < len(in); i++ {
		c := in[i]
		if c == esc {
			if last == esc {
				out.WriteByte(c)
				last = 0
				continue
			}
		} else {
			out.WriteByte(c)
		}
		last = c
	}
	return out.String()
}

// isWhitespace returns true if the character is ASCII whitespace.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r'
}

// isLetter returns true if the character is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDigit returns true if the character is an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isIdentChar returns true if the character can appear in a CSS
// identifier.
func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

// isElementChar returns true if the character can appear in an element
// selector.
func isElementChar(c byte) bool {
	return isIdentChar(c) || c == '|' || c == '*'
}

// isWordChar returns true if the character can begin an identifier.
func isWordChar(c byte) bool {
	return isIdentChar(c) || c == '|'
}
