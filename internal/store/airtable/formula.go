package airtable

import (
	"fmt"
	"strings"
)

// escapeFormulaValue escapes single quotes, the string delimiter in Airtable
// formulas, so owner and day keys cannot break out of the literal.
func escapeFormulaValue(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}

func ownerFormula(ownerKey string) string {
	return fmt.Sprintf("{ownerKey}='%s'", escapeFormulaValue(ownerKey))
}

func ownerDayFormula(ownerKey, dayKey string) string {
	return fmt.Sprintf("AND({ownerKey}='%s', {dayKey}='%s')",
		escapeFormulaValue(ownerKey), escapeFormulaValue(dayKey))
}

// ownerDayRangeFormula selects child records whose day key falls in
// [start, end). Day keys are zero-padded YYYY-MM-DD, so lexicographic
// comparison matches date order.
func ownerDayRangeFormula(ownerKey, startInclusive, endExclusive string) string {
	return fmt.Sprintf("AND({ownerKey}='%s', {dayKey}>='%s', {dayKey}<'%s')",
		escapeFormulaValue(ownerKey),
		escapeFormulaValue(startInclusive),
		escapeFormulaValue(endExclusive))
}

// dayDateRangeFormula selects Days rows in [start, end) via Airtable's date
// functions. IS_AFTER is strictly after, so the start bound is shifted back
// one day.
func dayDateRangeFormula(ownerKey, startMinusOne, endExclusive string) string {
	return fmt.Sprintf("AND({ownerKey}='%s', IS_AFTER({dayDate}, '%s'), IS_BEFORE({dayDate}, '%s'))",
		escapeFormulaValue(ownerKey),
		escapeFormulaValue(startMinusOne),
		escapeFormulaValue(endExclusive))
}

func idFormula(id string) string {
	return fmt.Sprintf("RECORD_ID()='%s'", escapeFormulaValue(id))
}
