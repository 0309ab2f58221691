package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/props-sh/props/pkg/errs"
)

func TestCategory_NewAndGetCategory(t *testing.T) {
	err := errs.ConversionFailed.New("bad value")
	assert.Equal(t, errs.ConversionFailed, errs.GetCategory(err))
	assert.EqualError(t, err, "bad value")
}

func TestCategory_NewfWrapsCause(t *testing.T) {
	cause := errors.New("root cause")
	err := errs.ValidationFailed.Newf("prop %q: %w", "k", cause)
	assert.Equal(t, errs.ValidationFailed, errs.GetCategory(err))
	require.ErrorIs(t, err, cause)
}

func TestCategory_NilIsOK(t *testing.T) {
	assert.Equal(t, errs.OK, errs.GetCategory(nil))
	assert.Nil(t, errs.SourceUnavailable.New(nil))
}

func TestCategory_UnknownForForeignError(t *testing.T) {
	assert.Equal(t, errs.Unknown, errs.GetCategory(fmt.Errorf("plain error")))
}
