package option_test

import (
	"testing"

	"github.com/npillmayer/hieroset/core/option"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestOptionOr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.core")
	defer teardown()
	//
	x := option.Some(42)
	assert.True(t, x.IsSome())
	assert.Equal(t, 42, x.Or(7))
	y := option.None[int]()
	assert.True(t, y.IsNone())
	assert.Equal(t, 7, y.Or(7))
	_, err := y.Must()
	assert.ErrorIs(t, err, option.ErrCannotMatchUnsetValue)
	assert.Equal(t, "None", y.String())
	assert.Equal(t, "42", x.String())
}

func TestOptionJoin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.core")
	defer teardown()
	//
	early := option.Some("red")
	assert.Equal(t, "blue", early.Join(option.Some("blue")).Unwrap())
	assert.Equal(t, "red", early.Join(option.None[string]()).Unwrap())
	assert.True(t, option.None[string]().Join(option.None[string]()).IsNone())
}

func TestOptionMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hieroset.core")
	defer teardown()
	//
	var got string
	option.Some(1.5).Match(func(f float64) { got = "some" }, func() { got = "none" })
	assert.Equal(t, "some", got)
	option.None[float64]().Match(nil, func() { got = "none" })
	assert.Equal(t, "none", got)
}
