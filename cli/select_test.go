package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExpirations = []time.Time{
	time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
}

func TestSelectExpiration(t *testing.T) {
	var out bytes.Buffer
	got, err := SelectExpiration(strings.NewReader("1\n"), &out, testExpirations)
	require.NoError(t, err)
	assert.Equal(t, testExpirations[1], got)
	assert.Contains(t, out.String(), "Available expirations:\n0: 2024-02-16\n1: 2024-03-15\n2: 2024-06-21\n")
	assert.NotContains(t, out.String(), "Invalid index")
}

func TestSelectExpirationReprompts(t *testing.T) {
	var out bytes.Buffer
	got, err := SelectExpiration(strings.NewReader("abc\n7\n-1\n\n 2 \n"), &out, testExpirations)
	require.NoError(t, err)
	assert.Equal(t, testExpirations[2], got)
	assert.Equal(t, 4, strings.Count(out.String(), "Invalid index. Try again."))
	assert.Equal(t, 5, strings.Count(out.String(), "Select expiration by index: "))
}

func TestSelectExpirationEOF(t *testing.T) {
	_, err := SelectExpiration(strings.NewReader("9\n"), io.Discard, testExpirations)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = SelectExpiration(strings.NewReader("0\n"), io.Discard, nil)
	assert.ErrorIs(t, err, ErrNoExpirations)
}
