package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogAccumulates(t *testing.T) {
	log := NewLog()

	assert.True(t, log.ShouldProceed())
	assert.Zero(t, log.ErrorCount())

	log.ReportError(PhaseLexer, 1, 2, "Unrecognized character: '@'")
	log.ReportWarning(PhaseSemantic, 3, 4, "unused variable")
	log.ReportError(PhaseParser, 5, 6, "Expected declaration.")

	assert.False(t, log.ShouldProceed())
	assert.Equal(t, 2, log.ErrorCount())
	assert.Equal(t, 1, log.WarningCount())

	// report order is preserved
	diags := log.Diagnostics()
	assert.Equal(t, []Diagnostic{
		{1, 2, PhaseLexer, SeverityError, "Unrecognized character: '@'"},
		{3, 4, PhaseSemantic, SeverityWarning, "unused variable"},
		{5, 6, PhaseParser, SeverityError, "Expected declaration."},
	}, diags)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Line: 3, Column: 7, Phase: PhaseParser, Severity: SeverityError, Message: "Expected type name."}

	assert.Equal(t, "[Line 3, Column 7] Parser Error: Expected type name.", d.String())
}
