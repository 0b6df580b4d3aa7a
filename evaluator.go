package selq

import (
	"fmt"
	"regexp"
	"strings"
)

// Evaluator is a predicate over document elements. Matches reports
// whether node matches relative to root; root is the element the query
// was evaluated against, which :has re-roots to the outer candidate.
//
// Evaluators are immutable once Parse returns and safe for concurrent
// use. String returns a canonical rendition of the evaluator tree:
// simple predicates print as selector fragments, while structural and
// Or nodes print in a pseudo-class notation such as ":parent(a)" or
// ":or(a, b)".
type Evaluator interface {
	Matches(root, node Node) bool
	String() string
}

// tagEvaluator matches elements by tag name.
type tagEvaluator struct {
	tagName string
}

func (e *tagEvaluator) Matches(root, node Node) bool {
	return node.TagName() == e.tagName
}

func (e *tagEvaluator) String() string {
	return e.tagName
}

// idEvaluator matches elements by id attribute.
type idEvaluator struct {
	id string
}

func (e *idEvaluator) Matches(root, node Node) bool {
	return node.ID() == e.id
}

func (e *idEvaluator) String() string {
	return "#" + e.id
}

// classEvaluator matches elements carrying a class name.
type classEvaluator struct {
	className string
}

func (e *classEvaluator) Matches(root, node Node) bool {
	for _, c := range node.Classes() {
		if c == e.className {
			return true
		}
	}
	return false
}

func (e *classEvaluator) String() string {
	return "." + e.className
}

// allElements matches any element.
type allElements struct{}

func (e *allElements) Matches(root, node Node) bool {
	return true
}

func (e *allElements) String() string {
	return "*"
}

// isEmpty matches elements holding neither element children nor text.
type isEmpty struct{}

func (e *isEmpty) Matches(root, node Node) bool {
	return len(node.Children()) == 0 && node.OwnText() == ""
}

func (e *isEmpty) String() string {
	return ":empty"
}

// isRoot matches the document root element, per CSS :root. Note this
// is the root of the candidate's document, not the query root.
type isRoot struct{}

func (e *isRoot) Matches(root, node Node) bool {
	return node.IsRoot()
}

func (e *isRoot) String() string {
	return ":root"
}

// attribute matches elements that have the key present.
type attribute struct {
	key string
}

func (e *attribute) Matches(root, node Node) bool {
	return node.HasAttr(e.key)
}

func (e *attribute) String() string {
	return "[" + e.key + "]"
}

// attributeStarting matches elements with any attribute whose name
// begins with the prefix.
type attributeStarting struct {
	keyPrefix string
}

func (e *attributeStarting) Matches(root, node Node) bool {
	for _, key := range attrNames(node) {
		if strings.HasPrefix(key, e.keyPrefix) {
			return true
		}
	}
	return false
}

func (e *attributeStarting) String() string {
	return "[^" + e.keyPrefix + "]"
}

// attrLister is implemented by bindings that can enumerate attribute
// names; attributeStarting needs the full set, which the minimal Node
// contract does not carry.
type attrLister interface {
	AttrNames() []string
}

func attrNames(node Node) []string {
	if l, ok := node.(attrLister); ok {
		return l.AttrNames()
	}
	return nil
}

// attributeWithValue matches key=value, comparing values
// case-insensitively.
type attributeWithValue struct {
	key   string
	value string
}

func (e *attributeWithValue) Matches(root, node Node) bool {
	return node.HasAttr(e.key) && strings.EqualFold(e.value, node.Attr(e.key))
}

func (e *attributeWithValue) String() string {
	return fmt.Sprintf("[%s=%s]", e.key, e.value)
}

// attributeWithValueNot matches key!=value.
type attributeWithValueNot struct {
	key   string
	value string
}

func (e *attributeWithValueNot) Matches(root, node Node) bool {
	return !strings.EqualFold(e.value, node.Attr(e.key))
}

func (e *attributeWithValueNot) String() string {
	return fmt.Sprintf("[%s!=%s]", e.key, e.value)
}

// attributeWithValueStarting matches key^=value.
type attributeWithValueStarting struct {
	key   string
	value string // lowercased
}

func (e *attributeWithValueStarting) Matches(root, node Node) bool {
	return node.HasAttr(e.key) && strings.HasPrefix(strings.ToLower(node.Attr(e.key)), e.value)
}

func (e *attributeWithValueStarting) String() string {
	return fmt.Sprintf("[%s^=%s]", e.key, e.value)
}

// attributeWithValueEnding matches key$=value.
type attributeWithValueEnding struct {
	key   string
	value string // lowercased
}

func (e *attributeWithValueEnding) Matches(root, node Node) bool {
	return node.HasAttr(e.key) && strings.HasSuffix(strings.ToLower(node.Attr(e.key)), e.value)
}

func (e *attributeWithValueEnding) String() string {
	return fmt.Sprintf("[%s$=%s]", e.key, e.value)
}

// attributeWithValueContaining matches key*=value.
type attributeWithValueContaining struct {
	key   string
	value string // lowercased
}

func (e *attributeWithValueContaining) Matches(root, node Node) bool {
	return node.HasAttr(e.key) && strings.Contains(strings.ToLower(node.Attr(e.key)), e.value)
}

func (e *attributeWithValueContaining) String() string {
	return fmt.Sprintf("[%s*=%s]", e.key, e.value)
}

// attributeWithValueMatching matches key~=regex.
type attributeWithValueMatching struct {
	key     string
	pattern *regexp.Regexp
}

func (e *attributeWithValueMatching) Matches(root, node Node) bool {
	return node.HasAttr(e.key) && e.pattern.MatchString(node.Attr(e.key))
}

func (e *attributeWithValueMatching) String() string {
	return fmt.Sprintf("[%s~=%s]", e.key, e.pattern.String())
}

// indexLessThan matches elements with 0-based sibling index < idx.
type indexLessThan struct {
	idx int
}

func (e *indexLessThan) Matches(root, node Node) bool {
	return node.SiblingIndex()-1 < e.idx
}

func (e *indexLessThan) String() string {
	return fmt.Sprintf(":lt(%d)", e.idx)
}

// indexGreaterThan matches elements with 0-based sibling index > idx.
type indexGreaterThan struct {
	idx int
}

func (e *indexGreaterThan) Matches(root, node Node) bool {
	return node.SiblingIndex()-1 > e.idx
}

func (e *indexGreaterThan) String() string {
	return fmt.Sprintf(":gt(%d)", e.idx)
}

// indexEquals matches elements with 0-based sibling index == idx.
type indexEquals struct {
	idx int
}

func (e *indexEquals) Matches(root, node Node) bool {
	return node.SiblingIndex()-1 == e.idx
}

func (e *indexEquals) String() string {
	return fmt.Sprintf(":eq(%d)", e.idx)
}

// isFirstChild matches elements that are the first element child of a
// parent element.
type isFirstChild struct{}

func (e *isFirstChild) Matches(root, node Node) bool {
	return node.Parent() != nil && node.SiblingIndex() == 1
}

func (e *isFirstChild) String() string {
	return ":first-child"
}

type isLastChild struct{}

func (e *isLastChild) Matches(root, node Node) bool {
	return node.Parent() != nil && node.SiblingIndexFromEnd() == 1
}

func (e *isLastChild) String() string {
	return ":last-child"
}

type isOnlyChild struct{}

func (e *isOnlyChild) Matches(root, node Node) bool {
	return node.Parent() != nil && node.SiblingIndex() == 1 && node.SiblingIndexFromEnd() == 1
}

func (e *isOnlyChild) String() string {
	return ":only-child"
}

type isFirstOfType struct{}

func (e *isFirstOfType) Matches(root, node Node) bool {
	return node.Parent() != nil && node.SiblingIndexOfType() == 1
}

func (e *isFirstOfType) String() string {
	return ":first-of-type"
}

type isLastOfType struct{}

func (e *isLastOfType) Matches(root, node Node) bool {
	return node.Parent() != nil && node.SiblingIndexOfTypeFromEnd() == 1
}

func (e *isLastOfType) String() string {
	return ":last-of-type"
}

type isOnlyOfType struct{}

func (e *isOnlyOfType) Matches(root, node Node) bool {
	return node.Parent() != nil && node.SiblingIndexOfType() == 1 && node.SiblingIndexOfTypeFromEnd() == 1
}

func (e *isOnlyOfType) String() string {
	return ":only-of-type"
}

// nthEvaluator matches the :nth-child family. The 1-based sibling
// position i matches when i = a*n + b for some n >= 0; a == 0 selects
// position b exactly.
type nthEvaluator struct {
	a, b      int
	ofType    bool
	backwards bool
}

func (e *nthEvaluator) Matches(root, node Node) bool {
	if node.Parent() == nil {
		return false
	}
	var pos int
	switch {
	case e.ofType && e.backwards:
		pos = node.SiblingIndexOfTypeFromEnd()
	case e.ofType:
		pos = node.SiblingIndexOfType()
	case e.backwards:
		pos = node.SiblingIndexFromEnd()
	default:
		pos = node.SiblingIndex()
	}
	if e.a == 0 {
		return pos == e.b
	}
	return (pos-e.b)*e.a >= 0 && (pos-e.b)%e.a == 0
}

func (e *nthEvaluator) String() string {
	name := "nth-child"
	switch {
	case e.ofType && e.backwards:
		name = "nth-last-of-type"
	case e.ofType:
		name = "nth-of-type"
	case e.backwards:
		name = "nth-last-child"
	}
	if e.a == 0 {
		return fmt.Sprintf(":%s(%d)", name, e.b)
	}
	if e.b == 0 {
		return fmt.Sprintf(":%s(%dn)", name, e.a)
	}
	return fmt.Sprintf(":%s(%dn%+d)", name, e.a, e.b)
}

// containsText matches elements whose text, descendants included,
// contains the search string. Comparison is case-insensitive.
type containsText struct {
	searchText string // lowercased
}

func (e *containsText) Matches(root, node Node) bool {
	return strings.Contains(strings.ToLower(node.Text()), e.searchText)
}

func (e *containsText) String() string {
	return fmt.Sprintf(":contains(%s)", e.searchText)
}

// containsOwnText matches on the element's directly held text only.
type containsOwnText struct {
	searchText string // lowercased
}

func (e *containsOwnText) Matches(root, node Node) bool {
	return strings.Contains(strings.ToLower(node.OwnText()), e.searchText)
}

func (e *containsOwnText) String() string {
	return fmt.Sprintf(":containsOwn(%s)", e.searchText)
}

// matchesText matches elements whose text matches the pattern.
type matchesText struct {
	pattern *regexp.Regexp
}

func (e *matchesText) Matches(root, node Node) bool {
	return e.pattern.MatchString(node.Text())
}

func (e *matchesText) String() string {
	return fmt.Sprintf(":matches(%s)", e.pattern.String())
}

type matchesOwnText struct {
	pattern *regexp.Regexp
}

func (e *matchesOwnText) Matches(root, node Node) bool {
	return e.pattern.MatchString(node.OwnText())
}

func (e *matchesOwnText) String() string {
	return fmt.Sprintf(":matchesOwn(%s)", e.pattern.String())
}
