package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndError(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddWarning("lossy", "rich text will be flattened", "article->post", "body")
	assert.True(t, d.IsValid())

	d.AddError("unknown_target", `target element "hedline" not found`, "article->post", "hedline")
	d.Suggest(SeverityError, "headline")

	require.True(t, d.HasErrors())
	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		`[article->post] hedline: [unknown_target] target element "hedline" not found (did you mean: headline?)`,
		err.Error())
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddInfo("auto", "auto-matched", "", "title")
	b.AddWarning("w", "warn", "", "")
	b.AddError("e", "err", "", "")

	a.Merge(b)
	assert.Len(t, a.All(), 3)
	assert.Equal(t, SeverityError, a.All()[0].Severity)
	assert.Equal(t, SeverityInfo, a.All()[2].Severity)
}

func TestDiagnostics_SuggestWithoutTarget(t *testing.T) {
	var d Diagnostics

	d.Suggest(SeverityWarning, "x")
	assert.Empty(t, d.Warnings)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
