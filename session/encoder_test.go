package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/MrEthical07/campusdesk/role"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := &Session{
		UserID:      "u-1",
		Role:        role.SuperAdmin,
		DisplayName: "Dean",
		Email:       "dean@campus.edu",
		CollegeName: "North Campus",
		Token:       "eyJhbGciOi.long.token",
		ExpiresAt:   1_700_003_600,
		Loading:     true,
		Error:       "ignored",
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Identity() != in.Identity() {
		t.Fatalf("identity mismatch: %+v vs %+v", out.Identity(), in.Identity())
	}
	if out.Loading || out.Error != "" {
		t.Fatal("transient fields must not round-trip")
	}
}

func TestDecodeMigratesV1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(sessionFormatVersionV1)
	for _, v := range []string{"u-legacy", "warden", "Old Warden", "legacy-token"} {
		if err := writeString(&buf, v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := binary.Write(&buf, binary.BigEndian, int64(42)); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode v1: %v", err)
	}
	if s.Role != role.Warden || s.Token != "legacy-token" || s.ExpiresAt != 42 || s.Email != "" {
		t.Fatalf("unexpected v1 migration %+v", s)
	}
}

func TestDecodeRejectsUnsupportedSchemaVersion(t *testing.T) {
	if _, err := Decode([]byte{99}); !errors.Is(err, ErrUnsupportedSchema) {
		t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	data, err := Encode(&Session{UserID: "u", Role: role.Student, Token: "t"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(append(data, 0x01)); err == nil {
		t.Fatal("expected trailing bytes to be rejected")
	}
}

// FuzzSessionDecode exercises the binary session decoder with arbitrary inputs.
// Goal: no panics, graceful error handling.
func FuzzSessionDecode(f *testing.F) {
	encoded, err := Encode(&Session{UserID: "u", Role: role.MessAdmin, Token: "tok", ExpiresAt: 1_700_000_000})
	if err == nil {
		f.Add(encoded)
	}
	f.Add([]byte{})
	f.Add([]byte{sessionFormatVersionCurrent})
	f.Add([]byte{sessionFormatVersionV1, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := Decode(data)
		if err == nil && s == nil {
			t.Fatal("Decode returned nil session without error")
		}
	})
}
