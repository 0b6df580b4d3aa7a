/*
Package selq implements CSS-style selector queries over HTML and XML
element trees. This is meant to be a low-level library for compiling a
selector string into a predicate tree that can be evaluated against any
document representation.

This package can be used for building scrapers, document sanitizers and
query tools on top of an existing DOM.


Basics

Querying occurs in two steps. First a token queue provides character
level consumption primitives over the selector text, such as balanced
bracket chomping and CSS identifier reads. The second step is a
recursive descent parser which folds the consumed pieces into an
Evaluator tree based on the combinators between them.

An Evaluator is a predicate with a single operation: given a root
element and a candidate element, report whether the candidate matches
relative to that root. Simple evaluators test one property of the
candidate (its tag, id, class, an attribute, its sibling position, its
text). Structural evaluators wrap an inner evaluator and test it
against the candidate's ancestors or preceding siblings, which is how
combinators are represented: the query "a b" compiles to "candidate
matches b, and some ancestor matches a". And/Or evaluators combine
children; the comma combinator appends to an existing Or rather than
nesting, and any other combinator that follows binds to the Or's
rightmost disjunct only, so that "a, b > c" groups as "a, (b > c)".

Sub-queries, such as the arguments of :has(...) and :not(...), recurse
through Parse. Produced trees are immutable and safe for concurrent use
against any number of documents.


Documents

The parser has no document model of its own. Evaluators see elements
through the Node interface, a read-only capability contract covering
naming, attributes, text, navigation and sibling positions. The
htmlnode subpackage binds Node to golang.org/x/net/html documents;
other representations can implement the interface directly. Comparison
semantics that differ between HTML and XML, such as tag name case,
belong to the Node implementation, not to the parser.
*/
package selq
