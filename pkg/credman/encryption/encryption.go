package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

const gcmPrefix = "gcm1"

// EncryptValue seals a plaintext value with AES-GCM. The output is the
// format prefix, the nonce, then the ciphertext.
func EncryptValue(value string, key []byte) ([]byte, error) {
	plaintext := []byte(value)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, len(gcmPrefix)+len(nonce)+len(ciphertext))
	out = append(out, gcmPrefix...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// DecryptValue opens a value sealed by EncryptValue. Payloads without
// the format prefix fall through to the legacy CFB scheme.
func DecryptValue(ciphertext []byte, key []byte) ([]byte, error) {
	if len(ciphertext) >= len(gcmPrefix) && string(ciphertext[:len(gcmPrefix)]) == gcmPrefix {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		nonceSize := gcm.NonceSize()
		if len(ciphertext) < len(gcmPrefix)+nonceSize {
			return nil, fmt.Errorf("ciphertext too short")
		}
		nonce := ciphertext[len(gcmPrefix) : len(gcmPrefix)+nonceSize]
		data := ciphertext[len(gcmPrefix)+nonceSize:]
		return gcm.Open(nil, nonce, data, nil)
	}

	return decryptLegacy(ciphertext, key)
}

func decryptLegacy(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aes.BlockSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	iv := ciphertext[:aes.BlockSize]
	ciphertext = ciphertext[aes.BlockSize:]

	stream := cipher.NewCFBDecrypter(block, iv)
	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)

	return plaintext, nil
}
