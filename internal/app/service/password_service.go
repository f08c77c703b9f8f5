package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/argon2"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
)

const (
	argon2Variant = "argon2id"
	argon2Version = 19

	// Minimum zxcvbn score (0-4) accepted for a new password.
	minPasswordScore = 3
)

// PasswordService hashes and verifies credentials and enforces password
// strength on change.
type PasswordService interface {
	// Hash derives an encoded Argon2id hash from a plaintext password.
	Hash(password string) (string, error)

	// Verify compares a plaintext password against an encoded hash.
	Verify(password, encodedHash string) (bool, error)

	// CheckStrength rejects passwords below the minimum zxcvbn score.
	// userInputs (email, name) are penalized as guessable material.
	CheckStrength(password string, userInputs []string) error
}

// Argon2Params defines tunable parameters for Argon2id hashing.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the default Argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// passwordService implements PasswordService.
type passwordService struct {
	params Argon2Params
}

// NewPasswordService creates a new PasswordService.
func NewPasswordService(params Argon2Params) PasswordService {
	if params.Memory == 0 {
		params = DefaultArgon2Params()
	}
	return &passwordService{params: params}
}

func (s *passwordService) Hash(password string) (string, error) {
	if password == "" {
		return "", domainerror.ErrPasswordRequired
	}

	salt := make([]byte, s.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		s.params.Iterations,
		s.params.Memory,
		s.params.Parallelism,
		s.params.KeyLength,
	)

	encoded := fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Variant,
		argon2Version,
		s.params.Memory,
		s.params.Iterations,
		s.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

func (s *passwordService) Verify(password, encodedHash string) (bool, error) {
	params, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(
		[]byte(password),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		uint32(len(key)),
	)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func (s *passwordService) CheckStrength(password string, userInputs []string) error {
	result := zxcvbn.PasswordStrength(password, userInputs)
	if result.Score < minPasswordScore {
		return domainerror.ErrPasswordTooWeak
	}
	return nil
}

func decodeHash(encodedHash string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != argon2Variant {
		return Argon2Params{}, nil, nil, domainerror.ErrPasswordHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2Version {
		return Argon2Params{}, nil, nil, domainerror.ErrPasswordHashFormat
	}

	var params Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return Argon2Params{}, nil, nil, domainerror.ErrPasswordHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, domainerror.ErrPasswordHashFormat
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Argon2Params{}, nil, nil, domainerror.ErrPasswordHashFormat
	}

	return params, salt, key, nil
}
