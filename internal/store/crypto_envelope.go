package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	prefsEnvelopeVersion = 1
	prefsSaltSize        = 16
	// prefsAAD is prepended to the salt as additional data, so a sealed
	// preferences file only opens as one.
	prefsAAD = "textbuddy/prefs"
)

// ErrWrongPassphrase is returned when a sealed preferences file does not
// open: the passphrase differs or the file was altered.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted store")

// kdf is the scrypt cost a preferences file was sealed under. It travels with
// the file so a later change to the default cost still opens old files.
type kdf struct {
	Salt     []byte `json:"salt"`
	Cost     int    `json:"n"`
	Block    int    `json:"r"`
	Parallel int    `json:"p"`
}

func defaultKDF() kdf { return kdf{Cost: 1 << 15, Block: 8, Parallel: 1} }

func (k kdf) aead(passphrase string) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), k.Salt, k.Cost, k.Block, k.Parallel, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	return chacha20poly1305.New(key)
}

// sealedPrefs is the JSON document kept in prefs.json.enc.
type sealedPrefs struct {
	Version int    `json:"version"`
	KDF     kdf    `json:"kdf"`
	Nonce   []byte `json:"nonce"`
	Prefs   []byte `json:"prefs"`
}

// sealPrefs encrypts the whole preferences map under a fresh salt and nonce.
func sealPrefs(passphrase string, prefs map[string]string, cost kdf) ([]byte, error) {
	plain, err := json.Marshal(prefs)
	if err != nil {
		return nil, err
	}
	cost.Salt = make([]byte, prefsSaltSize)
	if _, err := rand.Read(cost.Salt); err != nil {
		return nil, err
	}
	a, err := cost.aead(passphrase)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, a.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return json.Marshal(sealedPrefs{
		Version: prefsEnvelopeVersion,
		KDF:     cost,
		Nonce:   nonce,
		Prefs:   a.Seal(nil, nonce, plain, additionalData(cost.Salt)),
	})
}

// openPrefs reverses sealPrefs.
func openPrefs(passphrase string, b []byte) (map[string]string, error) {
	var env sealedPrefs
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
	}
	if env.Version != prefsEnvelopeVersion {
		return nil, fmt.Errorf("sealed prefs: unsupported version %d", env.Version)
	}
	if len(env.KDF.Salt) == 0 {
		return nil, fmt.Errorf("%w: missing salt", ErrWrongPassphrase)
	}
	a, err := env.KDF.aead(passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
	}
	if len(env.Nonce) != a.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	plain, err := a.Open(nil, env.Nonce, env.Prefs, additionalData(env.KDF.Salt))
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	prefs := make(map[string]string)
	if err := json.Unmarshal(plain, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func additionalData(salt []byte) []byte {
	return append([]byte(prefsAAD), salt...)
}
