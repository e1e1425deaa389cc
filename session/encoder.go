package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/MrEthical07/campusdesk/role"
)

const (
	sessionFormatVersionCurrent = 2
	sessionFormatVersionV1      = 1
)

// ErrUnsupportedSchema is returned by [Decode] for an unknown leading version byte.
var ErrUnsupportedSchema = errors.New("unsupported session schema version")

// Encode serializes the persisted identity of s. Transient flags are not written.
//
// Layout (v2): version byte, then uint16-length-prefixed UserID, Role, DisplayName,
// Email, CollegeName, Token, then int64 ExpiresAt, all big endian. v1 lacked Email and
// CollegeName.
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}
	var buf bytes.Buffer
	buf.WriteByte(sessionFormatVersionCurrent)

	fields := []struct {
		name  string
		value string
	}{
		{"userID", s.UserID},
		{"role", string(s.Role)},
		{"displayName", s.DisplayName},
		{"email", s.Email},
		{"collegeName", s.CollegeName},
		{"token", s.Token},
	}
	for _, f := range fields {
		if err := writeString(&buf, f.value); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses data produced by [Encode], migrating older schema versions.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != sessionFormatVersionCurrent && version != sessionFormatVersionV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, version)
	}

	s := &Session{}
	if s.UserID, err = readString(reader); err != nil {
		return nil, err
	}
	r, err := readString(reader)
	if err != nil {
		return nil, err
	}
	s.Role = role.Role(r)
	if s.DisplayName, err = readString(reader); err != nil {
		return nil, err
	}
	if version == sessionFormatVersionCurrent {
		if s.Email, err = readString(reader); err != nil {
			return nil, err
		}
		if s.CollegeName, err = readString(reader); err != nil {
			return nil, err
		}
	}
	if s.Token, err = readString(reader); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &s.ExpiresAt); err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes after session")
	}
	return s, nil
}

func writeString(buf *bytes.Buffer, v string) error {
	if len(v) > 0xFFFF {
		return errors.New("field too long")
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(v))); err != nil {
		return err
	}
	buf.WriteString(v)
	return nil
}

func readString(reader *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(reader, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if int(n) > reader.Len() {
		return "", io.ErrUnexpectedEOF
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(reader, out); err != nil {
		return "", err
	}
	return string(out), nil
}
