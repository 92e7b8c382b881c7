package expression

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/xfind/internal/domain"
)

// MatchAll is the match-everything query. The first clause replaces it.
const MatchAll = "*:*"

// Connector joins a clause to the accumulated expression.
type Connector string

// Supported connectors.
const (
	And     Connector = "AND"
	Or      Connector = "OR"
	Not     Connector = "NOT"
	Exclude Connector = "-"
	Require Connector = "+"
)

// operators maps connectors to their emitted tokens. %s is the clause.
var operators = map[Connector]string{
	And:     "&& %s",
	Or:      "|| %s",
	Not:     "* !%s",
	Exclude: "* -%s",
	Require: "+%s",
}

// IsValid reports whether c is a known connector.
func (c Connector) IsValid() bool {
	_, ok := operators[c]
	return ok
}

// ParseConnector maps a user-supplied operator name to a Connector.
// Names are case-insensitive; "exclude" and "require" are accepted as aliases.
func ParseConnector(s string) (Connector, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND", "&&":
		return And, true
	case "OR", "||":
		return Or, true
	case "NOT", "!":
		return Not, true
	case "-", "EXCLUDE":
		return Exclude, true
	case "+", "REQUIRE":
		return Require, true
	default:
		return "", false
	}
}

// Token renders clause wrapped by the connector's token.
// Unknown connectors fall back to AND.
func Token(c Connector, clause string) string {
	format, ok := operators[c]
	if !ok {
		format = operators[And]
	}
	return fmt.Sprintf(format, clause)
}

// Expression accumulates a boolean query string. Not safe for concurrent use.
type Expression struct {
	text string
}

// New returns an expression holding the match-all sentinel.
func New() *Expression {
	return &Expression{text: MatchAll}
}

// Text returns the accumulated query string.
func (e *Expression) Text() string { return e.text }

// IsMatchAll reports whether no clause has been added yet.
func (e *Expression) IsMatchAll() bool { return e.text == MatchAll }

// Set replaces the expression. A leading AND keyword or a leading && / ||
// token is stripped and an empty text falls back to the sentinel.
func (e *Expression) Set(text string) *Expression {
	e.text = stripLeadingConnector(text)
	if e.text == "" {
		e.text = MatchAll
	}
	return e
}

// Append joins text with connector c. While the expression is still the
// sentinel, text replaces it. Appending the sentinel itself resets the
// expression to a bare sentinel. Text that already starts with a && or ||
// token keeps its own connector.
func (e *Expression) Append(text string, c Connector) *Expression {
	text = strings.TrimSpace(text)
	if e.IsMatchAll() || text == MatchAll {
		return e.Set(text)
	}
	if _, ok := cutConnectorToken(text); ok {
		e.text += " " + text
		return e
	}
	e.text += " " + Token(c, text)
	return e
}

// Reset discards every clause.
func (e *Expression) Reset() *Expression {
	e.text = MatchAll
	return e
}

func (e *Expression) String() string { return e.text }

// Clause formats a field:value pair.
func Clause(field, value string) string {
	return strings.TrimSpace(field) + ":" + strings.TrimSpace(value)
}

// Quote wraps value in double quotes for an exact phrase match, escaping
// backslashes and quotes.
func Quote(value string) string {
	return `"` + quoteReplacer.Replace(value) + `"`
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// OperatorClause formats field:value wrapped by op's token.
// An unknown op yields the plain clause.
func OperatorClause(field string, op Connector, value string) string {
	clause := Clause(field, value)
	format, ok := operators[op]
	if !ok {
		return clause
	}
	return fmt.Sprintf(format, clause)
}

// Group builds a nested expression with fn and wraps it in parentheses.
func Group(fn func(*Expression)) string {
	sub := New()
	if fn != nil {
		fn(sub)
	}
	return "(" + sub.Text() + ")"
}

// BuildClause is the dynamic form of Clause/OperatorClause used by text
// front ends: two args are field and value, three are field, operator and
// value. Any other arity is a configuration error.
func BuildClause(args ...string) (string, error) {
	switch len(args) {
	case 2:
		return Clause(args[0], args[1]), nil
	case 3:
		op, ok := ParseConnector(args[1])
		if !ok {
			return Clause(args[0], args[2]), nil
		}
		return OperatorClause(args[0], op, args[2]), nil
	default:
		return "", domain.Configf("where clause needs 2 or 3 arguments, %d given", len(args))
	}
}

// cutConnectorToken removes a leading "&& " or "|| " token.
func cutConnectorToken(text string) (string, bool) {
	for _, tok := range []string{"&& ", "|| "} {
		if rest, ok := strings.CutPrefix(text, tok); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return text, false
}

func stripLeadingConnector(text string) string {
	text = strings.TrimSpace(text)
	if rest, ok := cutConnectorToken(text); ok {
		return rest
	}
	rest, ok := strings.CutPrefix(text, "AND")
	if !ok {
		return text
	}
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '(' {
		return strings.TrimSpace(rest)
	}
	return text
}
