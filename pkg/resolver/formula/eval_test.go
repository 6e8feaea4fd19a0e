package formula

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/henrye1/credit-paper/pkg/resolver/store"
)

// lookupStore seeds a store with a keyed table on sheet "Data":
//
//	   A      B     C
//	1        q1    q2
//	2  X     10    11
//	3  Y     20    21
//	4  Z     30    31
func lookupStore() *store.Store {
	st := store.New()
	st.Set("Data", "B1", "q1")
	st.Set("Data", "C1", "q2")
	keys := []string{"X", "Y", "Z"}
	vals := [][]string{{"10", "11"}, {"20", "21"}, {"30", "31"}}
	for i, k := range keys {
		row := strconv.Itoa(i + 2)
		st.Set("Data", "A"+row, k)
		st.Set("Data", "B"+row, vals[i][0])
		st.Set("Data", "C"+row, vals[i][1])
	}
	return st
}

func evalText(t *testing.T, st *store.Store, sheet, text string) (string, bool) {
	t.Helper()
	return Parse(text).Eval(sheet, st)
}

func TestEvalDirectRef(t *testing.T) {
	st := store.New()
	st.Set("Data", "A1", "10")
	st.Set("Other", "B2", "x")

	v, ok := evalText(t, st, "Data", "=A1")
	assert.True(t, ok)
	assert.Equal(t, "10", v)

	v, ok = evalText(t, st, "Data", "=+A1")
	assert.True(t, ok)
	assert.Equal(t, "10", v)

	v, ok = evalText(t, st, "Data", "=Other!$B$2")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = evalText(t, st, "Data", "=Z99")
	assert.False(t, ok, "unseeded reference stays unresolved")
}

func TestEvalIndexMatchOneAxis(t *testing.T) {
	st := lookupStore()
	st.Set("Calc", "A1", "Y")

	v, ok := evalText(t, st, "Calc", "=INDEX(Data!B2:B4,MATCH(A1,Data!A2:A4,0))")
	assert.True(t, ok)
	assert.Equal(t, "20", v)
}

func TestEvalIndexMatchTwoAxes(t *testing.T) {
	st := lookupStore()
	st.Set("Calc", "A1", "Z")
	st.Set("Calc", "B1", "q2")

	v, ok := evalText(t, st, "Calc",
		"=INDEX(Data!B2:C4,MATCH(A1,Data!A2:A4,0),MATCH(B1,Data!B1:C1,0))")
	assert.True(t, ok)
	assert.Equal(t, "31", v)
}

func TestEvalIndexMatchDivisor(t *testing.T) {
	st := lookupStore()
	st.Set("Calc", "A1", "X")

	v, ok := evalText(t, st, "Calc", "=INDEX(Data!B2:B4,MATCH(A1,Data!A2:A4,0))/4")
	assert.True(t, ok)
	assert.Equal(t, "2.5", v)
}

func TestEvalIndexMatchMissLeavesUnresolved(t *testing.T) {
	st := lookupStore()
	st.Set("Calc", "A1", "missing-key")

	_, ok := evalText(t, st, "Calc", "=INDEX(Data!B2:B4,MATCH(A1,Data!A2:A4,0))")
	assert.False(t, ok)
}

func TestEvalIfErrorNeverUnresolved(t *testing.T) {
	st := lookupStore()
	st.Set("Calc", "A1", "missing-key")

	// Inner lookup misses: IFERROR degrades to "".
	v, ok := evalText(t, st, "Calc", `=IFERROR(INDEX(Data!B2:B4,MATCH(A1,Data!A2:A4,0)),"")`)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	// Inner expression is not even INDEX/MATCH shaped: still "".
	v, ok = evalText(t, st, "Calc", `=IFERROR(SUM(A1:A9),"")`)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	// A working inner lookup passes its value through.
	st.Set("Calc", "A2", "X")
	v, ok = evalText(t, st, "Calc", `=IFERROR(INDEX(Data!B2:B4,MATCH(A2,Data!A2:A4,0)),"")`)
	assert.True(t, ok)
	assert.Equal(t, "10", v)
}

func TestEvalNestedVlookupLookup(t *testing.T) {
	st := lookupStore()
	// VLOOKUP("Y", A2:C4, 1) == "Y"; the surrounding MATCH then finds it.
	v, ok := evalText(t, st, "Calc",
		`=INDEX(Data!B2:B4,MATCH(VLOOKUP("Y",Data!A2:C4,1,FALSE),Data!A2:A4,0))`)
	assert.True(t, ok)
	assert.Equal(t, "20", v)
}

func TestEvalIf(t *testing.T) {
	st := store.New()
	st.Set("Data", "B5", "0")
	st.Set("Data", "B6", "7")

	v, ok := evalText(t, st, "Data", `=IF(B5=0,"",B5)`)
	assert.True(t, ok)
	assert.Equal(t, "", v, "zero collapses to empty")

	v, ok = evalText(t, st, "Data", `=IF(B6=0,"",B6)`)
	assert.True(t, ok)
	assert.Equal(t, "7", v)

	v, ok = evalText(t, st, "Data", `=IF(B9=0,"",B9)`)
	assert.True(t, ok)
	assert.Equal(t, "", v, "an unresolved reference also collapses to empty")
}

func TestEvalRound(t *testing.T) {
	st := store.New()
	st.Set("Data", "A1", "10")
	st.Set("Data", "A2", "2.345")
	st.Set("Data", "A3", "n/a")

	v, ok := evalText(t, st, "Data", "=ROUND(A1/3,2)")
	assert.True(t, ok)
	assert.Equal(t, "3.33", v)

	v, ok = evalText(t, st, "Data", "=ROUND(A2,2)")
	assert.True(t, ok)
	assert.Equal(t, "2.35", v, "half rounds away from zero")

	v, ok = evalText(t, st, "Data", "=ROUND(A3,2)")
	assert.True(t, ok)
	assert.Equal(t, "n/a", v, "non-numeric operand passes through unchanged")

	_, ok = evalText(t, st, "Data", "=ROUND(Z99,2)")
	assert.False(t, ok, "unresolved operand keeps the cell outstanding")
}

func TestEvalConcatenate(t *testing.T) {
	st := store.New()
	st.Set("Data", "A1", "2024")

	v, ok := evalText(t, st, "Data", `=CONCATENATE("FY",A1,"-",B1)`)
	assert.True(t, ok)
	assert.Equal(t, "FY2024-", v, "unresolved references contribute empty strings")
}

func TestEvalUnsupported(t *testing.T) {
	st := store.New()
	_, ok := evalText(t, st, "Data", "=SUM(A1:A9)")
	assert.False(t, ok)
}

func TestEvalGeneralConditionalStaysUnresolved(t *testing.T) {
	// A conditional outside the blank-guard template must not resolve to
	// a branch value, since the condition itself is never evaluated.
	st := store.New()
	st.Set("Data", "A1", "9")
	st.Set("Data", "C1", "c")

	_, ok := evalText(t, st, "Data", `=IF(A1>5,"big","small")`)
	assert.False(t, ok)

	_, ok = evalText(t, st, "Data", `=IF(A1>5,B9,C1)`)
	assert.False(t, ok)
}

func TestResolveExpressionOrReference(t *testing.T) {
	st := store.New()
	st.Set("Data", "A1", "12")
	st.Set("Data", "A2", "text")

	tests := []struct {
		expr string
		want string
		ok   bool
	}{
		{`"literal"`, "literal", true},
		{"42", "42", true},
		{"3.5", "3.5", true},
		{"A1", "12", true},
		{"$A$1", "12", true},
		{"A1/4", "3", true},
		{"A2/4", "text", true}, // non-numeric left side stays unscaled
		{"A1/0", "", false},
		{"Z99", "", false},
		{"", "", false},
		{"not a ref", "", false},
	}
	for _, tt := range tests {
		v, ok := resolveExpressionOrReference(st, "Data", tt.expr)
		assert.Equal(t, tt.ok, ok, "expr %q ok", tt.expr)
		assert.Equal(t, tt.want, v, "expr %q value", tt.expr)
	}
}
