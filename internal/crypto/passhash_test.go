package crypto

import (
	"bytes"
	"testing"
)

func TestRandBytes_LengthAndVariety(t *testing.T) {
	a, err := RandBytes(16)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	b, err := RandBytes(16)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	if len(a) != 16 || len(b) != 16 {
		t.Fatalf("want 16 bytes, got %d and %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Fatal("two random reads returned identical bytes")
	}
}

func TestHashVerifyPassword(t *testing.T) {
	salt, _ := RandBytes(16)
	h := HashPassword([]byte("s3cret"), salt)
	if !VerifyPassword([]byte("s3cret"), salt, h) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword([]byte("wrong"), salt, h) {
		t.Fatal("wrong password accepted")
	}
	other, _ := RandBytes(16)
	if VerifyPassword([]byte("s3cret"), other, h) {
		t.Fatal("wrong salt accepted")
	}
}

func TestDigestToken_Stable(t *testing.T) {
	a := DigestToken("tok")
	b := DigestToken("tok")
	if !bytes.Equal(a, b) {
		t.Fatal("digest not stable")
	}
	if bytes.Equal(a, DigestToken("tok2")) {
		t.Fatal("distinct tokens collided")
	}
}
