package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		Internal:          http.StatusInternalServerError,
		Validation:        http.StatusBadRequest,
		InvalidID:         http.StatusBadRequest,
		NotFound:          http.StatusNotFound,
		EmailExists:       http.StatusBadRequest,
		AuthorNotFound:    http.StatusNotFound,
		PasswordUnchanged: http.StatusBadRequest,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestIs_MatchesSentinelThroughWrapping(t *testing.T) {
	err := fmt.Errorf("update: %w", New(NotFound, MsgUserNotFound))

	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.False(t, errors.Is(err, ErrPostNotFound))
	assert.Equal(t, NotFound, KindOf(err))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(Internal, MsgUserGet, cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, MsgUserGet+": db down", err.Error())
}

func TestWithField_DoesNotMutateSentinel(t *testing.T) {
	err := ErrAuthorNotFound.WithField("author")

	require.Len(t, err.Fields, 1)
	assert.Equal(t, FieldError{Field: "author", Message: MsgAuthorNotFound}, err.Fields[0])
	assert.Empty(t, ErrAuthorNotFound.Fields)
	assert.True(t, errors.Is(err, ErrAuthorNotFound))
}
