package formula

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/henrye1/credit-paper/pkg/resolver/lookup"
	"github.com/henrye1/credit-paper/pkg/resolver/ref"
	"github.com/henrye1/credit-paper/pkg/resolver/store"
)

// Eval computes the formula's value against the store. currentSheet is the
// sheet owning the formula cell; unqualified references resolve against it.
// ok=false means "still unresolved this attempt": the scheduler may succeed
// on a later pass once more cells are resolved. KindIfError is the one shape
// that never reports ok=false — a failing inner expression yields "".
func (f Formula) Eval(currentSheet string, st *store.Store) (string, bool) {
	switch f.Kind {
	case KindDirectRef:
		return resolveExpressionOrReference(st, currentSheet, f.Ref)

	case KindIfError:
		if f.Index == nil {
			return "", true
		}
		v, ok := evalIndexMatch(st, currentSheet, f.Index)
		if !ok {
			return "", true
		}
		return v, true

	case KindIndexMatch:
		if f.Index == nil {
			return "", false
		}
		return evalIndexMatch(st, currentSheet, f.Index)

	case KindIf:
		v, ok := resolveExpressionOrReference(st, currentSheet, f.ThenRef)
		if !ok || v == "" || isZero(v) {
			return "", true
		}
		return v, true

	case KindRound:
		v, ok := resolveExpressionOrReference(st, currentSheet, f.Expr)
		if !ok {
			return "", false
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			// Non-numeric operands pass through unchanged.
			return v, true
		}
		return d.Round(int32(f.Decimals)).String(), true

	case KindConcat:
		var sb strings.Builder
		for _, arg := range f.Args {
			if lit, ok := unquote(arg); ok {
				sb.WriteString(lit)
				continue
			}
			if v, ok := resolveExpressionOrReference(st, currentSheet, arg); ok {
				sb.WriteString(v)
			}
		}
		return sb.String(), true
	}
	return "", false
}

// evalIndexMatch resolves the MATCH axes, fetches the INDEX value and applies
// the trailing divisor when present.
func evalIndexMatch(st *store.Store, currentSheet string, im *IndexMatch) (string, bool) {
	arrayRng, ok := ref.ParseRange(im.ArrayRange, currentSheet)
	if !ok {
		return "", false
	}

	rowVal, ok := resolveExpressionOrReference(st, currentSheet, im.RowLookup)
	if !ok {
		return "", false
	}
	rowRng, ok := ref.ParseRange(im.RowRange, currentSheet)
	if !ok {
		return "", false
	}
	rowPos, ok := lookup.Match(st, rowVal, rowRng)
	if !ok {
		return "", false
	}

	colPos := 1
	if im.ColLookup != "" {
		colVal, ok := resolveExpressionOrReference(st, currentSheet, im.ColLookup)
		if !ok {
			return "", false
		}
		colRng, ok := ref.ParseRange(im.ColRange, currentSheet)
		if !ok {
			return "", false
		}
		colPos, ok = lookup.Match(st, colVal, colRng)
		if !ok {
			return "", false
		}
	}

	v, ok := lookup.Index(st, arrayRng, rowPos, colPos)
	if !ok {
		return "", false
	}
	if im.Divisor != "" {
		return divide(st, currentSheet, v, im.Divisor)
	}
	return v, true
}

// resolveExpressionOrReference resolves a MATCH/argument expression: a quoted
// string, a numeric literal, a nested VLOOKUP call, a cell reference, or any
// of those with a trailing "/divisor" scale.
func resolveExpressionOrReference(st *store.Store, currentSheet, expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", false
	}
	if lit, ok := unquote(expr); ok {
		return lit, true
	}
	if left, right, found := cutTopLevel(expr, '/'); found {
		v, ok := resolveExpressionOrReference(st, currentSheet, left)
		if !ok {
			return "", false
		}
		return divide(st, currentSheet, v, right)
	}
	if strings.HasPrefix(strings.ToUpper(expr), "VLOOKUP(") {
		return evalVlookup(st, currentSheet, expr)
	}
	if _, err := strconv.ParseFloat(expr, 64); err == nil {
		return expr, true
	}
	c := ref.ParseCellRef(expr, currentSheet)
	if !c.Valid() {
		return "", false
	}
	return st.Get(c.Sheet, c.Coord)
}

// evalVlookup handles VLOOKUP(lookup, table, colIndex[, exact]). Only exact
// matches are emulated; the fourth argument is ignored.
func evalVlookup(st *store.Store, currentSheet, expr string) (string, bool) {
	args := splitArgs(extractCall(expr, "VLOOKUP"))
	if len(args) < 3 {
		return "", false
	}
	lookupVal, ok := resolveExpressionOrReference(st, currentSheet, args[0])
	if !ok {
		return "", false
	}
	table, ok := ref.ParseRange(args[1], currentSheet)
	if !ok {
		return "", false
	}
	colIndex, err := strconv.Atoi(strings.TrimSpace(args[2]))
	if err != nil {
		return "", false
	}
	return lookup.Vlookup(st, lookupVal, table, colIndex)
}

// divide scales a numeric value by a divisor expression. Non-numeric values
// are returned unscaled; a divisor that does not resolve to a usable number
// fails the attempt.
func divide(st *store.Store, currentSheet, value, divisorExpr string) (string, bool) {
	num, err := decimal.NewFromString(value)
	if err != nil {
		return value, true
	}
	dv, ok := resolveExpressionOrReference(st, currentSheet, divisorExpr)
	if !ok {
		return "", false
	}
	den, err := decimal.NewFromString(dv)
	if err != nil || den.IsZero() {
		return "", false
	}
	return num.Div(den).String(), true
}

// cutTopLevel splits s around the first sep outside parentheses and quotes.
func cutTopLevel(s string, sep byte) (left, right string, found bool) {
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
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
			}
		case sep:
			if !inQuote && depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// unquote strips surrounding double quotes from a literal argument.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], true
	}
	return "", false
}

func isZero(v string) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return err == nil && n == 0
}
