package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fastConfig keeps hashing quick in tests.
func fastConfig(pepper string) *PasswordConfig {
	return &PasswordConfig{BcryptCost: 10, Pepper: pepper}
}

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		pepper   string
		wantCost int
		wantErr  string
	}{
		{name: "defaults", wantCost: 12},
		{name: "minimum cost", cost: "10", wantCost: 10},
		{name: "maximum cost with pepper", cost: "14", pepper: "pepper", wantCost: 14},
		{name: "cost too low", cost: "9", wantErr: "out of range"},
		{name: "cost too high", cost: "15", wantErr: "out of range"},
		{name: "non numeric cost", cost: "twelve", wantErr: "invalid BCRYPT_COST"},
		{name: "pepper fills the bcrypt limit", pepper: strings.Repeat("p", 72), wantErr: "PASSWORD_PEPPER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := fastConfig("")

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	assert.True(t, cfg.VerifyPassword("correct horse", hash))
	assert.False(t, cfg.VerifyPassword("wrong horse", hash))
	assert.False(t, cfg.VerifyPassword("correct horse", "not-a-hash"))
}

func TestPasswordConfig_SaltedHashesDiffer(t *testing.T) {
	cfg := fastConfig("")
	a, err := cfg.HashPassword("same-password")
	require.NoError(t, err)
	b, err := cfg.HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := fastConfig("server-side-pepper")
	hash, err := peppered.HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("password123", hash))
	assert.False(t, fastConfig("").VerifyPassword("password123", hash), "hash must not verify without the pepper")
	assert.False(t, fastConfig("rotated-pepper").VerifyPassword("password123", hash), "hash must not verify after rotation")
}

func TestPasswordConfig_LengthLimit(t *testing.T) {
	tests := []struct {
		name     string
		pepper   string
		password string
		wantErr  bool
	}{
		{name: "exactly 72 bytes", password: strings.Repeat("a", 72)},
		{name: "73 bytes", password: strings.Repeat("a", 73), wantErr: true},
		{name: "pepper and password at the limit", pepper: strings.Repeat("p", 63), password: "test12345"},
		{name: "pepper pushes past the limit", pepper: strings.Repeat("p", 64), password: "test12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fastConfig(tt.pepper)
			hash, err := cfg.HashPassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPasswordTooLong)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.True(t, cfg.VerifyPassword(tt.password, hash))
		})
	}
}

func TestPasswordConfig_ConcurrentUse(t *testing.T) {
	cfg := fastConfig("pepper")
	hash, err := cfg.HashPassword("shared-password")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cfg.VerifyPassword("shared-password", hash)
		}(i)
	}
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
}
