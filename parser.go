package selq

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// nth-argument forms: "2n+1" style, and the bare index. The argument
// is lowercased before matching.
var (
	nthAB = regexp.MustCompile(`^((\+|-)?(\d+)?)n(\s*(\+|-)?\s*\d+)?$`)
	nthB  = regexp.MustCompile(`^(\+|-)?\d+$`)
)

// queryParser parses a CSS selector string into an Evaluator tree.
type queryParser struct {
	tq    *TokenQueue
	query string
	evals []Evaluator
}

// Parse compiles a CSS selector into an Evaluator. The returned error,
// if any, is a *Error carrying the query and the unread remainder at
// the point of failure.
func Parse(query string) (Evaluator, error) {
	query = strings.TrimSpace(query)
	p := &queryParser{tq: NewTokenQueue(query), query: query}
	return p.parse()
}

// MustParse is like Parse but panics on error. Use for hard-coded
// selectors known to be valid.
func MustParse(query string) Evaluator {
	ev, err := Parse(query)
	if err != nil {
		panic(err)
	}
	return ev
}

func (p *queryParser) parse() (Evaluator, error) {
	if p.query == "" {
		return nil, p.errorf("query must not be empty")
	}
	p.tq.ConsumeWhitespace()

	if p.tq.MatchesAny(combinators...) {
		// A leading combinator binds the query root as its implicit
		// left operand, as in ":has(> p)" sub-queries.
		p.evals = append(p.evals, &rootEvaluator{})
		if err := p.combinator(p.tq.Consume()); err != nil {
			return nil, err
		}
	} else if err := p.findElements(); err != nil {
		return nil, err
	}

	for !p.tq.IsEmpty() {
		seenWhite := p.tq.ConsumeWhitespace()
		switch {
		case p.tq.MatchesAny(combinators...):
			if err := p.combinator(p.tq.Consume()); err != nil {
				return nil, err
			}
		case seenWhite:
			// Whitespace followed by a non-combinator token is the
			// descendant combinator.
			if err := p.combinator(' '); err != nil {
				return nil, err
			}
		default:
			// E.g. div.class, div:first-child: implicit AND.
			if err := p.findElements(); err != nil {
				return nil, err
			}
		}
	}

	if len(p.evals) == 1 {
		return p.evals[0], nil
	}
	return newAnd(p.evals...), nil
}

// combinator folds the accumulated evaluators with the sub-query to
// the right of c. When the left side is already an Or and c is not a
// comma, only the rightmost disjunct takes part and the result is
// spliced back in, so "a, b > c" groups as "a, (b > c)".
func (p *queryParser) combinator(c byte) error {
	p.tq.ConsumeWhitespace()
	subQuery, err := p.consumeSubQuery()
	if err != nil {
		return p.errorf("%s", err)
	}
	newEval, err := Parse(subQuery)
	if err != nil {
		return err
	}

	var rootEval, currentEval Evaluator
	replaceRightMost := false
	if len(p.evals) == 1 {
		rootEval = p.evals[0]
		currentEval = p.evals[0]
		if or, ok := currentEval.(*orEvaluator); ok && c != ',' {
			currentEval = or.rightMostEvaluator()
			replaceRightMost = true
		}
	} else {
		rootEval = newAnd(p.evals...)
		currentEval = rootEval
	}
	p.evals = nil

	switch c {
	case '>':
		currentEval = newAnd(newEval, &immediateParentEvaluator{currentEval})
	case ' ':
		currentEval = newAnd(newEval, &parentEvaluator{currentEval})
	case '+':
		currentEval = newAnd(newEval, &immediatePreviousSiblingEvaluator{currentEval})
	case '~':
		currentEval = newAnd(newEval, &previousSiblingEvaluator{currentEval})
	case ',':
		if or, ok := currentEval.(*orEvaluator); ok {
			or.add(newEval)
		} else {
			currentEval = newOr(currentEval, newEval)
		}
	default:
		return p.errorf("unknown combinator %q", c)
	}

	if replaceRightMost {
		rootEval.(*orEvaluator).replaceRightMostEvaluator(currentEval)
	} else {
		rootEval = currentEval
	}
	p.evals = append(p.evals, rootEval)
	return nil
}

// consumeSubQuery reads up to the next top-level combinator or EOF.
// Balanced (...) and [...] runs are kept opaque, so "a[b c]" does not
// stop at the inner space.
func (p *queryParser) consumeSubQuery() (string, error) {
	var sq strings.Builder
	for !p.tq.IsEmpty() {
		switch {
		case p.tq.Matches("("):
			inner, err := p.tq.ChompBalanced('(', ')')
			if err != nil {
				return "", err
			}
			sq.WriteString("(")
			sq.WriteString(inner)
			sq.WriteString(")")
		case p.tq.Matches("["):
			inner, err := p.tq.ChompBalanced('[', ']')
			if err != nil {
				return "", err
			}
			sq.WriteString("[")
			sq.WriteString(inner)
			sq.WriteString("]")
		case p.tq.MatchesAny(combinators...) || isWhitespace(p.tq.Peek()):
			return sq.String(), nil
		default:
			sq.WriteByte(p.tq.Consume())
		}
	}
	return sq.String(), nil
}

// findElements parses one atomic selector and appends its evaluator.
func (p *queryParser) findElements() error {
	switch {
	case p.tq.MatchChomp("#"):
		return p.byID()
	case p.tq.MatchChomp("."):
		return p.byClass()
	case p.tq.MatchesWord():
		return p.byTag()
	case p.tq.Matches("["):
		return p.byAttribute()
	case p.tq.MatchChomp("*"):
		p.evals = append(p.evals, &allElements{})
	case p.tq.MatchChomp(":lt("):
		return p.indexLessThan()
	case p.tq.MatchChomp(":gt("):
		return p.indexGreaterThan()
	case p.tq.MatchChomp(":eq("):
		return p.indexEquals()
	case p.tq.Matches(":has("):
		return p.has()
	case p.tq.Matches(":contains("):
		return p.contains(false)
	case p.tq.Matches(":containsOwn("):
		return p.contains(true)
	case p.tq.Matches(":matches("):
		return p.matches(false)
	case p.tq.Matches(":matchesOwn("):
		return p.matches(true)
	case p.tq.Matches(":not("):
		return p.not()
	case p.tq.MatchChomp(":nth-child("):
		return p.cssNthChild(false, false)
	case p.tq.MatchChomp(":nth-last-child("):
		return p.cssNthChild(true, false)
	case p.tq.MatchChomp(":nth-of-type("):
		return p.cssNthChild(false, true)
	case p.tq.MatchChomp(":nth-last-of-type("):
		return p.cssNthChild(true, true)
	case p.tq.MatchChomp(":first-child"):
		p.evals = append(p.evals, &isFirstChild{})
	case p.tq.MatchChomp(":last-child"):
		p.evals = append(p.evals, &isLastChild{})
	case p.tq.MatchChomp(":first-of-type"):
		p.evals = append(p.evals, &isFirstOfType{})
	case p.tq.MatchChomp(":last-of-type"):
		p.evals = append(p.evals, &isLastOfType{})
	case p.tq.MatchChomp(":only-child"):
		p.evals = append(p.evals, &isOnlyChild{})
	case p.tq.MatchChomp(":only-of-type"):
		p.evals = append(p.evals, &isOnlyOfType{})
	case p.tq.MatchChomp(":empty"):
		p.evals = append(p.evals, &isEmpty{})
	case p.tq.MatchChomp(":root"):
		p.evals = append(p.evals, &isRoot{})
	default:
		return p.errorf("unexpected token")
	}
	return nil
}

func (p *queryParser) byID() error {
	id := p.tq.ConsumeCSSIdentifier()
	if id == "" {
		return p.errorf("id selector must not be empty")
	}
	p.evals = append(p.evals, &idEvaluator{id: id})
	return nil
}

func (p *queryParser) byClass() error {
	className := p.tq.ConsumeCSSIdentifier()
	if className == "" {
		return p.errorf("class selector must not be empty")
	}
	p.evals = append(p.evals, &classEvaluator{className: strings.TrimSpace(className)})
	return nil
}

func (p *queryParser) byTag() error {
	tagName := p.tq.ConsumeElementSelector()
	if tagName == "" {
		return p.errorf("tag selector must not be empty")
	}
	// Namespaces use the ns|tag form in queries, ns:tag in documents.
	if strings.Contains(tagName, "|") {
		tagName = strings.ReplaceAll(tagName, "|", ":")
	}
	p.evals = append(p.evals, &tagEvaluator{tagName: strings.TrimSpace(tagName)})
	return nil
}

func (p *queryParser) byAttribute() error {
	inner, err := p.tq.ChompBalanced('[', ']')
	if err != nil {
		return p.errorf("%s", err)
	}
	cq := NewTokenQueue(inner)
	key := strings.TrimSpace(cq.ConsumeToAny(attributeOps...))
	if key == "" {
		return p.errorf("attribute key must not be empty")
	}
	cq.ConsumeWhitespace()

	if cq.IsEmpty() {
		// [^data-] matches elements with any attribute name starting
		// with the prefix. The ^ is only special in the bare form: a
		// key beginning with ^ in a value test stays literal.
		if strings.HasPrefix(key, "^") {
			p.evals = append(p.evals, &attributeStarting{keyPrefix: strings.ToLower(key[1:])})
		} else {
			p.evals = append(p.evals, &attribute{key: strings.ToLower(key)})
		}
		return nil
	}

	key = strings.ToLower(key)
	switch {
	case cq.MatchChomp("="):
		p.evals = append(p.evals, &attributeWithValue{key: key, value: attrValue(cq)})
	case cq.MatchChomp("!="):
		p.evals = append(p.evals, &attributeWithValueNot{key: key, value: attrValue(cq)})
	case cq.MatchChomp("^="):
		p.evals = append(p.evals, &attributeWithValueStarting{key: key, value: attrValue(cq)})
	case cq.MatchChomp("$="):
		p.evals = append(p.evals, &attributeWithValueEnding{key: key, value: attrValue(cq)})
	case cq.MatchChomp("*="):
		p.evals = append(p.evals, &attributeWithValueContaining{key: key, value: attrValue(cq)})
	case cq.MatchChomp("~="):
		pattern, err := regexp.Compile(cq.Remainder())
		if err != nil {
			return p.errorf("invalid attribute regex: %s", err)
		}
		p.evals = append(p.evals, &attributeWithValueMatching{key: key, pattern: pattern})
	default:
		return p.errorf("unexpected attribute token at %q", cq.Remainder())
	}
	return nil
}

// attrValue normalizes a comparison value: surrounding whitespace
// dropped, lowercased for the case-insensitive comparators.
func attrValue(cq *TokenQueue) string {
	return strings.ToLower(strings.TrimSpace(cq.Remainder()))
}

func (p *queryParser) indexLessThan() error {
	idx, err := p.consumeIndex()
	if err != nil {
		return err
	}
	p.evals = append(p.evals, &indexLessThan{idx: idx})
	return nil
}

func (p *queryParser) indexGreaterThan() error {
	idx, err := p.consumeIndex()
	if err != nil {
		return err
	}
	p.evals = append(p.evals, &indexGreaterThan{idx: idx})
	return nil
}

func (p *queryParser) indexEquals() error {
	idx, err := p.consumeIndex()
	if err != nil {
		return err
	}
	p.evals = append(p.evals, &indexEquals{idx: idx})
	return nil
}

func (p *queryParser) consumeIndex() (int, error) {
	indexS := strings.TrimSpace(p.tq.ChompTo(")"))
	idx, err := strconv.Atoi(strings.TrimPrefix(indexS, "+"))
	if err != nil {
		return 0, p.errorf("index must be numeric, was %q", indexS)
	}
	return idx, nil
}

func (p *queryParser) cssNthChild(backwards, ofType bool) error {
	argS := strings.ToLower(strings.TrimSpace(p.tq.ChompTo(")")))
	var a, b int
	var err error
	switch {
	case argS == "odd":
		a, b = 2, 1
	case argS == "even":
		a, b = 2, 0
	case nthAB.MatchString(argS):
		m := nthAB.FindStringSubmatch(argS)
		a = 1
		if m[3] != "" {
			if a, err = parseNthInt(m[1]); err != nil {
				return p.errorf("could not parse nth-index %q: %s", argS, err)
			}
		}
		if m[4] != "" {
			if b, err = parseNthInt(m[4]); err != nil {
				return p.errorf("could not parse nth-index %q: %s", argS, err)
			}
		}
	case nthB.MatchString(argS):
		if b, err = parseNthInt(argS); err != nil {
			return p.errorf("could not parse nth-index %q: %s", argS, err)
		}
	default:
		return p.errorf("could not parse nth-index %q: unexpected format", argS)
	}
	p.evals = append(p.evals, &nthEvaluator{a: a, b: b, ofType: ofType, backwards: backwards})
	return nil
}

// parseNthInt parses one signed coefficient, tolerating the interior
// whitespace the nth grammar allows ("2n + 1") and a leading +.
func parseNthInt(s string) (int, error) {
	s = strings.TrimPrefix(strings.Join(strings.Fields(s), ""), "+")
	return strconv.Atoi(s)
}

func (p *queryParser) has() error {
	p.tq.MatchChomp(":has")
	subQuery, err := p.tq.ChompBalanced('(', ')')
	if err != nil {
		return p.errorf("%s", err)
	}
	if subQuery == "" {
		return p.errorf(":has(el) subselect must not be empty")
	}
	inner, err := Parse(subQuery)
	if err != nil {
		return err
	}
	p.evals = append(p.evals, &hasEvaluator{evaluator: inner})
	return nil
}

func (p *queryParser) contains(own bool) error {
	if own {
		p.tq.MatchChomp(":containsOwn")
	} else {
		p.tq.MatchChomp(":contains")
	}
	arg, err := p.tq.ChompBalanced('(', ')')
	if err != nil {
		return p.errorf("%s", err)
	}
	searchText := strings.ToLower(Unescape(arg))
	if searchText == "" {
		return p.errorf(":contains(text) query must not be empty")
	}
	if own {
		p.evals = append(p.evals, &containsOwnText{searchText: searchText})
	} else {
		p.evals = append(p.evals, &containsText{searchText: searchText})
	}
	return nil
}

func (p *queryParser) matches(own bool) error {
	if own {
		p.tq.MatchChomp(":matchesOwn")
	} else {
		p.tq.MatchChomp(":matches")
	}
	regex, err := p.tq.ChompBalanced('(', ')')
	if err != nil {
		return p.errorf("%s", err)
	}
	if regex == "" {
		return p.errorf(":matches(regex) query must not be empty")
	}
	pattern, err := regexp.Compile(regex)
	if err != nil {
		return p.errorf("invalid regex %q: %s", regex, err)
	}
	if own {
		p.evals = append(p.evals, &matchesOwnText{pattern: pattern})
	} else {
		p.evals = append(p.evals, &matchesText{pattern: pattern})
	}
	return nil
}

func (p *queryParser) not() error {
	p.tq.MatchChomp(":not")
	subQuery, err := p.tq.ChompBalanced('(', ')')
	if err != nil {
		return p.errorf("%s", err)
	}
	if subQuery == "" {
		return p.errorf(":not(selector) subselect must not be empty")
	}
	inner, err := Parse(subQuery)
	if err != nil {
		return err
	}
	p.evals = append(p.evals, &notEvaluator{evaluator: inner})
	return nil
}

func (p *queryParser) errorf(format string, args ...any) error {
	return &Error{
		Message:   fmt.Sprintf(format, args...),
		Query:     p.query,
		Remainder: p.tq.Remainder(),
	}
}
