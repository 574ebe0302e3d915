package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"failover-constructor/internal/catalog"
	"failover-constructor/internal/class"
	"failover-constructor/internal/config"
)

func testApp(t *testing.T) *app {
	t.Helper()

	file, err := catalog.LoadFile("../catalog/testdata/classes.yaml")
	require.NoError(t, err)

	a := &app{cfg: config.Default(), file: file}
	require.NoError(t, a.build())

	return a
}

func TestApp_Construct(t *testing.T) {
	a := testApp(t)

	var out bytes.Buffer
	require.NoError(t, a.construct(&out, "Sub1", "{num: 123, failover_to: Failover}", false))
	assert.Contains(t, out.String(), "class: Failover")
	assert.Contains(t, out.String(), "Sub1: attribute (r_str) is required")

	out.Reset()
	require.NoError(t, a.construct(&out, "Guarded", `{num: "7"}`, true))
	assert.Contains(t, out.String(), "class: Guarded")
	assert.Contains(t, out.String(), "(int) 7")

	err := a.construct(&out, "Sub", "", false)
	require.ErrorIs(t, err, class.ErrClassNotFound)
	assert.ErrorContains(t, err, "did you mean: Sub1")

	_, err = parseArgs("[1, 2]")
	require.ErrorContains(t, err, "failed to parse args")
}

func TestApp_Rebind(t *testing.T) {
	a := testApp(t)

	var out bytes.Buffer
	require.NoError(t, a.rebind(&out, "Sub1", "{num: 1, r_str: x, q_str: y, failover_to: Sub2}"))
	assert.Contains(t, out.String(), "base: Sub1")
	assert.Contains(t, out.String(), "class: Sub2")
	assert.NotContains(t, out.String(), "error:")

	out.Reset()
	require.NoError(t, a.rebind(&out, "Sub1", "{num: 1, r_str: x, failover_to: Sub2}"))
	assert.Contains(t, out.String(), "class: Sub1")
	assert.Contains(t, out.String(), "error: Sub2: attribute (q_str) is required")
}

func TestApp_Check(t *testing.T) {
	a := testApp(t)

	var out bytes.Buffer
	require.NoError(t, a.check(&out, "", ""))
	assert.Contains(t, out.String(), "catalog ok: 5 classes")

	out.Reset()
	require.NoError(t, a.check(&out, "Sub2", "{r_str: a, q_str: b}"))
	assert.Contains(t, out.String(), "Sub2 ok")

	out.Reset()
	err := a.check(&out, "Sub2", "{num: abc}")
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out.String(), "constraint_violation")
	assert.Contains(t, out.String(), "missing_required")

	file, err := catalog.Parse([]byte(`classes: [{name: A, extends: B}]`))
	require.NoError(t, err)

	invalid := &app{cfg: config.Default(), file: file}

	out.Reset()
	err = invalid.check(&out, "", "")
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out.String(), "unknown_parent")
}

func TestApp_Describe(t *testing.T) {
	a := testApp(t)

	var out bytes.Buffer
	require.NoError(t, a.describe(&out, "Resource"))
	assert.Contains(t, out.String(), "class: Resource")
	assert.Contains(t, out.String(), "-path")
	assert.Contains(t, out.String(), "OneOf[GET,POST]")

	out.Reset()
	require.NoError(t, a.describe(&out, "Sub2"))
	assert.Contains(t, out.String(), "extends: Sub1")

	out.Reset()
	require.NoError(t, a.list(&out))
	assert.Contains(t, out.String(), "Guarded")
	assert.Contains(t, out.String(), "[Sub1 Failover]")
}
