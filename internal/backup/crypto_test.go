package backup

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte(`{"persons": [], "payments": []}`)

	enc, err := Encrypt(plaintext, "correct horse")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if !IsEncrypted(enc) {
		t.Error("Expected encrypted output to carry the header")
	}
	if bytes.Contains(enc, []byte("persons")) {
		t.Error("Ciphertext leaks plaintext")
	}

	dec, err := Decrypt(enc, "correct horse")
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(dec, plaintext) {
		t.Errorf("Round trip changed data: %q", dec)
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	enc, err := Encrypt([]byte("secret"), "right")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := Decrypt(enc, "wrong"); !errors.Is(err, ErrBadPassphrase) {
		t.Errorf("Expected ErrBadPassphrase, got %v", err)
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	t.Run("plain data", func(t *testing.T) {
		_, err := Decrypt([]byte(`{"persons": []}`), "pw")
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("Expected *DecodeError, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Decrypt(append(append([]byte{}, encMagic...), 1, 2, 3), "pw")
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("Expected *DecodeError, got %v", err)
		}
	})
}

func TestIsEncrypted(t *testing.T) {
	if IsEncrypted([]byte(`{"persons": []}`)) {
		t.Error("Plain JSON misdetected as encrypted")
	}
	if !IsEncrypted(encMagic) {
		t.Error("Header not detected")
	}
}
