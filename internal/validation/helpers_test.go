package validation

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUserID_JSONBodyRestored(t *testing.T) {
	body := `{"user_id":"u-1","mapping":{"barang":"item"}}`
	r := httptest.NewRequest("POST", "/faktur/submit", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	userID, err := ExtractUserID(r)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	// the body must still be fully readable afterwards
	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))
}

func TestExtractUserID_Form(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader("user_id=u-2&other=1"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	userID, err := ExtractUserID(r)
	require.NoError(t, err)
	assert.Equal(t, "u-2", userID)
}

func TestExtractUserID_Missing(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"other":"y"}`))
	_, err := ExtractUserID(r)
	assert.Error(t, err)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 100, ClampLimit("", 100, 500))
	assert.Equal(t, 42, ClampLimit("42", 100, 500))
	assert.Equal(t, 500, ClampLimit("9999", 100, 500))
	assert.Equal(t, 100, ClampLimit("-5", 100, 500))
	assert.Equal(t, 100, ClampLimit("abc", 100, 500))
}

func TestSplitSearchTerms(t *testing.T) {
	assert.Equal(t, []string{"bca", "agustus"}, SplitSearchTerms("  bca   agustus "))
	assert.Nil(t, SplitSearchTerms("   "))
}

func TestIsYYYYMMDD(t *testing.T) {
	assert.True(t, IsYYYYMMDD("2025-08-31"))
	assert.False(t, IsYYYYMMDD("31/08/2025"))
	assert.False(t, IsYYYYMMDD("2025-08-31T00:00:00Z"))
}

func TestOnlyDate(t *testing.T) {
	assert.Equal(t, "2025-08-31", OnlyDate("2025-08-31T10:11:12Z"))
	assert.Equal(t, "2025-08-31", OnlyDate(" 2025-08-31 "))
	assert.Equal(t, "short", OnlyDate("short"))
}

func TestTrimToNil(t *testing.T) {
	assert.Nil(t, TrimToNil(nil))

	empty := "   "
	assert.Nil(t, TrimToNil(&empty))

	v := "  BEI "
	got := TrimToNil(&v)
	require.NotNil(t, got)
	assert.Equal(t, "BEI", *got)
}
