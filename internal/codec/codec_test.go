package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartclass/classvault/internal/models"
)

func sampleState() *models.State {
	return &models.State{
		Members:     []models.Member{{ID: "m1", DisplayName: "Kim", EntranceCode: "LION77"}},
		Resources:   []models.Resource{{ID: "r1", Name: "FoxLearn", URL: "https://fox.example"}},
		Credentials: []models.Credential{{ID: "c1", ResourceID: "r1", MemberID: "m1", Username: "kim01", Password: ""}},
		TenantCode:  "3-1",
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	c := New()
	k1 := c.DeriveKey("3-1")
	k2 := New().DeriveKey("3-1")
	require.Equal(t, k1, k2)
	require.Len(t, k1, 32)
}

func TestDeriveKey_DifferentCodes(t *testing.T) {
	c := New()
	k1 := c.DeriveKey("3-1")
	k2 := c.DeriveKey("3-2")
	require.False(t, bytes.Equal(k1, k2))
}

func TestDeriveKey_CaseSensitive(t *testing.T) {
	c := New()
	require.NotEqual(t, c.DeriveKey("math1"), c.DeriveKey("MATH1"))
}

func TestBlob_RoundTrip(t *testing.T) {
	c := New()
	state := sampleState()

	ct, err := c.EncryptBlob(state, "3-1")
	require.NoError(t, err)
	require.NotContains(t, ct, "FoxLearn")

	got := c.DecryptBlob(ct, "3-1")
	require.NotNil(t, got)
	require.Equal(t, state, got)
}

func TestBlob_WrongKeyReturnsNil(t *testing.T) {
	c := New()
	ct, err := c.EncryptBlob(sampleState(), "3-1")
	require.NoError(t, err)

	require.Nil(t, c.DecryptBlob(ct, "3-2"))
}

func TestBlob_CorruptReturnsNil(t *testing.T) {
	c := New()
	require.Nil(t, c.DecryptBlob("", "3-1"))
	require.Nil(t, c.DecryptBlob("garbage", "3-1"))
	require.Nil(t, c.DecryptBlob("cv1:not-base64!!", "3-1"))
	require.Nil(t, c.DecryptBlob("cv1:AAAA", "3-1"))

	ct, err := c.EncryptBlob(sampleState(), "3-1")
	require.NoError(t, err)
	// Flip the tail of the ciphertext; GCM must reject it.
	tampered := ct[:len(ct)-2] + "zz"
	require.Nil(t, c.DecryptBlob(tampered, "3-1"))
}

func TestField_RoundTrip(t *testing.T) {
	c := New()
	ct, err := c.EncryptField("s3cret", "3-1")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", ct)
	require.Equal(t, "s3cret", c.DecryptField(ct, "3-1"))
}

func TestField_EmptyMapsToEmpty(t *testing.T) {
	c := New()
	ct, err := c.EncryptField("", "3-1")
	require.NoError(t, err)
	require.Equal(t, "", ct)
	require.Equal(t, "", c.DecryptField("", "3-1"))
}

func TestField_FallbackOnForeignInput(t *testing.T) {
	c := New()

	// Not produced by EncryptField at all: legacy plaintext survives.
	require.Equal(t, "legacy-password", c.DecryptField("legacy-password", "3-1"))

	// Produced under a different code: the ciphertext comes back as-is
	// rather than vanishing.
	ct, err := c.EncryptField("s3cret", "other-code")
	require.NoError(t, err)
	require.Equal(t, ct, c.DecryptField(ct, "3-1"))
}

func TestField_UniqueNoncePerCall(t *testing.T) {
	c := New()
	ct1, err := c.EncryptField("same", "3-1")
	require.NoError(t, err)
	ct2, err := c.EncryptField("same", "3-1")
	require.NoError(t, err)
	require.NotEqual(t, ct1, ct2)
}
