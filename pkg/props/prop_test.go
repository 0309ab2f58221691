package props_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/props-sh/props/pkg/props"
	"github.com/props-sh/props/pkg/props/convert"
)

func TestProp_ConversionFailureEntersErrorState(t *testing.T) {
	p := props.NewProp[int]("k", convert.Int{}, nil, 1000, nil)

	p.SetValue(props.StringValue("not-a-number"))
	_, err := p.Get()
	require.Error(t, err)

	p.SetValue(props.StringValue("42"))
	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestProp_ValidationFailure(t *testing.T) {
	positive := func(v int) error {
		if v <= 0 {
			return assertAbsent{}
		}
		return nil
	}
	p := props.NewProp[int]("k", convert.Int{}, positive, 1000, nil)

	p.SetValue(props.StringValue("-1"))
	_, err := p.Get()
	require.Error(t, err)

	p.SetValue(props.StringValue("5"))
	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestProp_EncodedStringIsNullWhenUnset(t *testing.T) {
	p := props.NewProp[int]("k", convert.Int{}, nil, 1000, nil)
	assert.Equal(t, "null", p.EncodedString())

	p.SetValue(props.StringValue("7"))
	assert.Equal(t, "7", p.EncodedString())
}

func TestProp_EpochIsMonotonic(t *testing.T) {
	p := props.NewProp[string]("k", convert.String{}, nil, 1000, nil)
	e0 := p.Epoch()
	p.SetValue(props.StringValue("a"))
	e1 := p.Epoch()
	p.SetValue(props.StringValue("b"))
	e2 := p.Epoch()
	assert.Less(t, e0, e1)
	assert.Less(t, e1, e2)
}
