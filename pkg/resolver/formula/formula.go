// Package formula recognizes a closed set of spreadsheet formula shapes and
// evaluates them against resolved cell values. Recognition and evaluation are
// separate steps: Parse produces a tagged Formula, Eval dispatches on its
// kind. Anything outside the supported shapes parses as KindUnsupported and
// never resolves.
package formula

import (
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// Kind identifies the recognized formula shape.
type Kind int

const (
	// KindUnsupported is any formula outside the supported shapes.
	KindUnsupported Kind = iota
	// KindDirectRef is a bare cell reference, e.g. "=Sheet2!B7" or "=+B95".
	KindDirectRef
	// KindIfError wraps an INDEX/MATCH expression: =IFERROR(INDEX(...), "").
	KindIfError
	// KindIndexMatch is INDEX with one or two MATCH axes and an optional
	// trailing divisor.
	KindIndexMatch
	// KindIf is the blank-guard conditional =IF(x=0 OR x="", "", ref).
	KindIf
	// KindRound is =ROUND(expr, decimals).
	KindRound
	// KindConcat is =CONCATENATE(arg, ...).
	KindConcat
)

// IndexMatch describes INDEX(range, MATCH(...)[, MATCH(...)])[/divisor].
type IndexMatch struct {
	ArrayRange string
	RowLookup  string
	RowRange   string
	ColLookup  string // "" for one-axis INDEX
	ColRange   string
	Divisor    string // "" when no trailing divisor
}

// Formula is the parsed form of one formula cell. Only the fields of the
// matched kind are populated.
type Formula struct {
	Kind Kind
	Raw  string

	Ref      string      // KindDirectRef
	Index    *IndexMatch // KindIndexMatch, KindIfError (nil when malformed)
	ThenRef  string      // KindIf: reference yielded when not blank/zero
	Expr     string      // KindRound operand
	Decimals int         // KindRound
	Args     []string    // KindConcat arguments, raw
}

// Parse classifies a formula string. The leading formula marker and a
// normalizing "+" prefix are stripped, so "=+B95" parses like "=B95". The
// "+" strip applies to any body, not just references, so "=+INDEX(...)" is
// also normalized. The shape match is decided once: a formula that matches a
// shape but has a malformed body keeps that shape and fails at evaluation
// time.
func Parse(text string) Formula {
	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "="))
	body = strings.TrimSpace(strings.TrimPrefix(body, "+"))
	f := Formula{Kind: KindUnsupported, Raw: text}
	if body == "" {
		return f
	}

	switch outerFunction(body) {
	case "":
		if isReference(body) {
			f.Kind = KindDirectRef
			f.Ref = body
		}
	case "IFERROR":
		f.Kind = KindIfError
		args := splitArgs(extractCall(body, "IFERROR"))
		if len(args) >= 1 {
			f.Index = parseIndexMatch(strings.TrimSpace(args[0]))
		}
	case "INDEX":
		f.Kind = KindIndexMatch
		f.Index = parseIndexMatch(body)
	case "IF":
		// Only the blank-guard template IF(x=0 OR x="", "", ref) is
		// supported; general conditionals stay unsupported rather than
		// resolving to a branch picked without evaluating the condition.
		args := splitArgs(extractCall(body, "IF"))
		if len(args) != 3 {
			return f
		}
		if lit, ok := unquote(strings.TrimSpace(args[1])); !ok || lit != "" {
			return f
		}
		if !blankGuard(args[0]) {
			return f
		}
		f.Kind = KindIf
		f.ThenRef = strings.TrimSpace(args[2])
	case "ROUND":
		args := splitArgs(extractCall(body, "ROUND"))
		if len(args) != 2 {
			return f
		}
		dec, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return f
		}
		f.Kind = KindRound
		f.Expr = strings.TrimSpace(args[0])
		f.Decimals = dec
	case "CONCATENATE":
		args := splitArgs(extractCall(body, "CONCATENATE"))
		if len(args) == 0 {
			return f
		}
		f.Kind = KindConcat
		for _, a := range args {
			f.Args = append(f.Args, strings.TrimSpace(a))
		}
	}
	return f
}

// blankGuard reports whether cond is a "=0" or "=\"\"" comparison, optionally
// a set of such comparisons wrapped in OR(...).
func blankGuard(cond string) bool {
	cond = strings.TrimSpace(cond)
	if strings.HasPrefix(cond, "OR(") {
		inner := extractCall(cond, "OR")
		if inner == "" {
			return false
		}
		for _, part := range splitArgs(inner) {
			if !blankGuard(part) {
				return false
			}
		}
		return true
	}
	left, right, found := cutTopLevel(cond, '=')
	if !found || strings.TrimSpace(left) == "" {
		return false
	}
	right = strings.TrimSpace(right)
	return right == "0" || right == `""`
}

// outerFunction returns the uppercased name of the outermost function call,
// or "" when the formula does not start with a function.
func outerFunction(body string) string {
	p := efp.ExcelParser()
	for _, t := range p.Parse(body) {
		switch t.TType {
		case efp.TokenTypeWhitespace:
			continue
		case efp.TokenTypeFunction:
			if t.TSubType == efp.TokenSubTypeStart {
				return strings.ToUpper(t.TValue)
			}
			return ""
		default:
			return ""
		}
	}
	return ""
}

// isReference reports whether body tokenizes to a single range operand.
func isReference(body string) bool {
	var operands, others int
	p := efp.ExcelParser()
	for _, t := range p.Parse(body) {
		switch {
		case t.TType == efp.TokenTypeWhitespace:
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeRange:
			operands++
		default:
			others++
		}
	}
	return operands == 1 && others == 0
}

// parseIndexMatch extracts the INDEX/MATCH structure from an expression
// beginning at INDEX(. Returns nil when the expression does not fit the
// one- or two-axis template.
func parseIndexMatch(expr string) *IndexMatch {
	idx := strings.Index(expr, "INDEX(")
	if idx != 0 {
		return nil
	}
	inner := extractCall(expr, "INDEX")
	if inner == "" {
		return nil
	}
	args := splitArgs(inner)
	if len(args) < 2 || len(args) > 3 {
		return nil
	}

	im := &IndexMatch{ArrayRange: strings.TrimSpace(args[0])}

	rowExpr := strings.TrimSpace(args[1])
	if !strings.HasPrefix(rowExpr, "MATCH(") {
		return nil
	}
	rowArgs := splitArgs(extractCall(rowExpr, "MATCH"))
	if len(rowArgs) < 2 {
		return nil
	}
	im.RowLookup = strings.TrimSpace(rowArgs[0])
	im.RowRange = strings.TrimSpace(rowArgs[1])

	if len(args) == 3 {
		colExpr := strings.TrimSpace(args[2])
		if !strings.HasPrefix(colExpr, "MATCH(") {
			return nil
		}
		colArgs := splitArgs(extractCall(colExpr, "MATCH"))
		if len(colArgs) < 2 {
			return nil
		}
		im.ColLookup = strings.TrimSpace(colArgs[0])
		im.ColRange = strings.TrimSpace(colArgs[1])
	}

	// Trailing "/divisor" after the INDEX(...) call.
	rest := expr[len("INDEX(")+len(inner)+1:]
	if after, found := strings.CutPrefix(strings.TrimSpace(rest), "/"); found {
		im.Divisor = strings.TrimSpace(after)
	}
	return im
}

// extractCall returns the argument text inside the first funcName(...) call,
// tracking parenthesis depth and quoted sections.
func extractCall(s, funcName string) string {
	idx := strings.Index(s, funcName+"(")
	if idx == -1 {
		return ""
	}
	start := idx + len(funcName)
	depth := 0
	inQuote := false
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
				if depth == 0 {
					return s[start+1 : i]
				}
			}
		}
	}
	return ""
}

// splitArgs splits function arguments on top-level commas, respecting nested
// calls and quoted strings.
func splitArgs(argsStr string) []string {
	if argsStr == "" {
		return nil
	}
	var result []string
	var current strings.Builder
	depth := 0
	inQuote := false
	for i := 0; i < len(argsStr); i++ {
		ch := argsStr[i]
		switch ch {
		case '"':
			inQuote = !inQuote
			current.WriteByte(ch)
		case '(':
			if !inQuote {
				depth++
			}
			current.WriteByte(ch)
		case ')':
			if !inQuote {
				depth--
			}
			current.WriteByte(ch)
		case ',':
			if !inQuote && depth == 0 {
				result = append(result, current.String())
				current.Reset()
			} else {
				current.WriteByte(ch)
			}
		default:
			current.WriteByte(ch)
		}
	}
	result = append(result, current.String())
	return result
}
