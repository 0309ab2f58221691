package props_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/props-sh/props/pkg/errs"
	"github.com/props-sh/props/pkg/props"
	"github.com/props-sh/props/pkg/props/sources"
)

func TestLoadDeclarations_StandardTypes(t *testing.T) {
	// Comment lines are not supported by the declaration format (a "#" line
	// is an unknown type), but blank lines are ignored.
	decl := strings.NewReader(strings.Join([]string{
		"env",
		"",
		"system=id=sys1",
		"file=/etc/app.properties",
	}, "\n"))

	srcs, err := props.LoadDeclarations(decl, nil)
	require.NoError(t, err)
	require.Len(t, srcs, 3)

	assert.IsType(t, &sources.Env{}, srcs[0])
	assert.IsType(t, &sources.System{}, srcs[1])
	assert.Equal(t, "sys1", srcs[1].ID())
	assert.IsType(t, &sources.File{}, srcs[2])
	assert.Equal(t, "/etc/app.properties", srcs[2].ID())
}

func TestLoadDeclarations_UnknownTypeIsInvalidConfig(t *testing.T) {
	decl := strings.NewReader("nosuchtype")
	_, err := props.LoadDeclarations(decl, nil)
	require.Error(t, err)
	assert.Equal(t, errs.InvalidConfig, errs.GetCategory(err))
	assert.Contains(t, err.Error(), "nosuchtype")
}

func TestLoadDeclarations_MissingRequiredOptionIsInvalidConfig(t *testing.T) {
	decl := strings.NewReader("classpath")
	_, err := props.LoadDeclarations(decl, nil)
	require.Error(t, err)
	assert.Equal(t, errs.InvalidConfig, errs.GetCategory(err))
}

func TestLoadDeclarations_CaseInsensitiveType(t *testing.T) {
	decl := strings.NewReader("ENV")
	srcs, err := props.LoadDeclarations(decl, nil)
	require.NoError(t, err)
	require.Len(t, srcs, 1)
}
