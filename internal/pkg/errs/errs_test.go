package errs_test

import (
	"errors"
	"testing"

	"relay/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("package", "b1c1")

		assert.Equal(t, "package", err.ParamName)
		assert.Equal(t, "b1c1", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: b1c1", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("transit record", "m-7", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: transit record, ID is: m-7 (cause: connection reset)",
			err.Error())
	})

	t.Run("non-string identifiers are formatted", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("mover", 42)
		assert.Equal(t, "object not found: 42", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	err := errs.NewValueIsInvalidError("status")
	assert.Equal(t, "value is invalid: status", err.Error())
	assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())

	withCause := errs.NewValueIsInvalidErrorWithCause("status", errors.New("4 is not a valid status"))
	assert.Equal(t, "value is invalid: status (cause: 4 is not a valid status)", withCause.Error())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 91.5, -90, 90)

		assert.Equal(t, 91.5, err.Value)
		assert.Equal(t, "value is invalid: 91.5 is latitude, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("longitude", 200, -180, 180, errors.New("bad fix"))
		assert.Equal(t,
			"value is invalid: 200 is longitude, min value is -180, max value is 180 (cause: bad fix)",
			err.Error())
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("label", "north\ngate", 0, 10)
		assert.Contains(t, err.Error(), "north gate")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("display name")
	assert.Equal(t, "value is required: display name", err.Error())

	withCause := errs.NewValueIsRequiredErrorWithCause("display name", errors.New("blank"))
	assert.Equal(t, "value is required: display name (cause: blank)", withCause.Error())
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidError("package")
	assert.Equal(t, "version is invalid: package", err.Error())

	withCause := errs.NewVersionIsInvalidErrorWithCause("package", errors.New("expected 3"))
	assert.Equal(t, "version is invalid: package (cause: expected 3)", withCause.Error())
}

func TestErrorsCanBeClassified(t *testing.T) {
	joined := errors.Join(
		errs.NewValueIsRequiredError("sender"),
		errs.NewValueIsOutOfRangeError("latitude", 100, -90, 90),
	)

	require.ErrorIs(t, joined, errs.ErrValueIsRequired)
	require.ErrorIs(t, joined, errs.ErrValueIsOutOfRange)
	require.NotErrorIs(t, joined, errs.ErrObjectNotFound)

	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, errs.NewObjectNotFoundError("package", "x"), &notFound)
	assert.Equal(t, "package", notFound.ParamName)
}
