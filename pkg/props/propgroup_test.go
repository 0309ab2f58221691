package props_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/props-sh/props/pkg/props"
	"github.com/props-sh/props/pkg/props/convert"
)

// scenario 3 from spec.md §8: a Group2 of two initially-unset int props
// converges to the final tuple once both members are set.
func TestScenario3_Group2ConvergesToFinalTuple(t *testing.T) {
	p1 := props.NewProp[int]("p1", convert.Int{}, nil, 1000, nil)
	p2 := props.NewProp[int]("p2", convert.Int{}, nil, 1000, nil)

	// Both members start unset, so construction observes a MultiValueRead
	// error, not a panic or a zero-valued tuple.
	g := props.NewGroup2[int, int](p1, p2, 1000, nil)
	_, _, err := g.Get()
	require.Error(t, err)

	var final struct{ a, b int }
	var gotFinal bool
	g.Subscribe(func(a, b int) {
		final.a, final.b = a, b
		gotFinal = true
	}, func(error) {})

	p1.SetValue(props.StringValue("1"))
	p2.SetValue(props.StringValue("2"))

	require.True(t, gotFinal)
	assert.Equal(t, 1, final.a)
	assert.Equal(t, 2, final.b)

	a, b, err := g.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

// scenario 4 from spec.md §8: template rendering.
func TestScenario4_RenderTemplate(t *testing.T) {
	p1 := props.NewProp[int]("p1", convert.Int{}, nil, 1000, nil)
	p2 := props.NewProp[int]("p2", convert.Int{}, nil, 1000, nil)
	p1.SetValue(props.StringValue("1"))
	p2.SetValue(props.StringValue("2"))

	g := props.NewGroup2[int, int](p1, p2, 1000, nil)
	tmpl := g.RenderTemplate("%s and %s", 1000, nil)

	v, err := tmpl.Get()
	require.NoError(t, err)
	assert.Equal(t, "1 and 2", v)
}

func TestPropGroup_DuplicateTupleSuppressed(t *testing.T) {
	p1 := props.NewProp[int]("p1", convert.Int{}, nil, 1000, nil)
	p2 := props.NewProp[int]("p2", convert.Int{}, nil, 1000, nil)
	p1.SetValue(props.StringValue("1"))
	p2.SetValue(props.StringValue("2"))

	g := props.NewGroup2[int, int](p1, p2, 1000, nil)

	count := 0
	g.Subscribe(func(int, int) { count++ }, func(error) {})

	// The first post-construction update establishes lastSent.
	p1.SetValue(props.StringValue("1"))
	require.Equal(t, 1, count)

	// Re-asserting the identical (value, tuple) pair must not notify again.
	p1.SetValue(props.StringValue("1"))
	assert.Equal(t, 1, count, "group must suppress a tuple identical to the last one sent")
}

func TestPropGroup_MemberErrorPropagates(t *testing.T) {
	p1 := props.NewProp[int]("p1", convert.Int{}, nil, 1000, nil)
	p2 := props.NewProp[int]("p2", convert.Int{}, nil, 1000, nil)
	p1.SetValue(props.StringValue("1"))
	p2.SetValue(props.StringValue("2"))

	g := props.NewGroup2[int, int](p1, p2, 1000, nil)

	var groupErr error
	g.Subscribe(func(int, int) {}, func(err error) { groupErr = err })

	p1.SetValue(props.StringValue("not-a-number"))
	require.Error(t, groupErr)

	_, _, err := g.Get()
	require.Error(t, err)
}
