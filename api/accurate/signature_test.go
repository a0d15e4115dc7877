package accurate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToSign_Canonical(t *testing.T) {
	tests := []struct {
		name string
		sts  StringToSign
		want string
	}{
		{
			name: "method path timestamp",
			sts:  StringToSign{Method: "get", Path: "/api/db-list.do", Timestamp: "1700000000"},
			want: "GET:/api/db-list.do:1700000000",
		},
		{
			name: "query joins when present",
			sts:  StringToSign{Method: "GET", Path: "/api/open-db.do", Timestamp: "1", Query: "id=5"},
			want: "GET:/api/open-db.do:1:id=5",
		},
		{
			name: "body joins after query",
			sts:  StringToSign{Method: "POST", Path: "/p", Timestamp: "2", Query: "a=1", Body: "x=y"},
			want: "POST:/p:2:a=1:x=y",
		},
		{
			name: "body without query",
			sts:  StringToSign{Method: "POST", Path: "/p", Timestamp: "2", Body: "x=y"},
			want: "POST:/p:2:x=y",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sts.Canonical())
		})
	}
}

func TestSign_Digests(t *testing.T) {
	sts := StringToSign{Method: "GET", Path: "/api/db-list.do", Timestamp: "1700000000"}
	secret := "s3cret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sts.Canonical()))
	sum := mac.Sum(nil)

	hexSig, err := Sign(sts, secret, DigestHex)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum), hexSig)

	b64Sig, err := Sign(sts, secret, DigestBase64)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(sum), b64Sig)

	defSig, err := Sign(sts, secret, "")
	require.NoError(t, err)
	assert.Equal(t, hexSig, defSig)

	_, err = Sign(sts, secret, "md5")
	assert.Error(t, err)
}

func TestSignTimestamp(t *testing.T) {
	ts := "2025-08-31T10:00:00.000Z"
	secret := "s3cret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, SignTimestamp(ts, secret))
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "", NormalizeQuery(nil))
	assert.Equal(t, "", NormalizeQuery(url.Values{}))

	q := url.Values{}
	q.Set("z", "last")
	q.Set("a", "first")
	q.Set("m", "mid dle")
	assert.Equal(t, "a=first&m=mid+dle&z=last", NormalizeQuery(q))
}
