package services

import (
	"encoding/base64"
	"encoding/binary"
	"errors"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// tokenLen is the raw payload size: 8 bytes of booking id followed by
// 8 bytes of entropy.
const tokenLen = 16

// TokenMinter produces the per-booking tokens and renders them as QR
// images. Tokens embed the booking id, so they are unique by
// construction; the entropy half keeps them unguessable.
type TokenMinter struct {
	QRSize int
}

func NewTokenMinter() *TokenMinter {
	return &TokenMinter{QRSize: 256}
}

var _ Minter = (*TokenMinter)(nil)

// Mint builds a token from the booking id and the given salt. Only the
// first 8 salt bytes are used.
func (m *TokenMinter) Mint(bookingID uint, salt []byte) string {
	buf := make([]byte, tokenLen)
	binary.BigEndian.PutUint64(buf[:8], uint64(bookingID))
	copy(buf[8:], salt)
	return base64.RawURLEncoding.EncodeToString(buf)
}

// NewSalt returns fresh entropy for a mint attempt.
func NewSalt() []byte {
	u := uuid.New()
	return u[:]
}

// DecodeToken recovers the booking id a token was minted for.
func DecodeToken(token string) (uint, error) {
	buf, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, err
	}
	if len(buf) != tokenLen {
		return 0, errors.New("malformed token")
	}
	return uint(binary.BigEndian.Uint64(buf[:8])), nil
}

// Encode renders a token as a PNG QR code. A failure here never undoes
// the booking; the raw token is still usable.
func (m *TokenMinter) Encode(token string) ([]byte, error) {
	return qrcode.Encode(token, qrcode.Medium, m.QRSize)
}
