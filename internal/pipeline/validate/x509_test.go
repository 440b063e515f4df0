package validate

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

func selfSignedRSA(t *testing.T, bits int) *x509.Certificate {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		t.Fatalf("generating %d bit key: %v", bits, err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parsing certificate: %v", err)
	}
	return cert
}

func TestX509RSAKeyLength(t *testing.T) {
	t.Parallel()

	v, err := NewX509RSAKeyLength("key-length", 2048, 4096)
	if err != nil {
		t.Fatalf("NewX509RSAKeyLength: %v", err)
	}

	short := selfSignedRSA(t, 1024)
	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), short, item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Done {
		t.Errorf("short key: action = %v, want Done", action)
	}
	if len(pipeline.ErrorsOf(item)) != 1 {
		t.Error("short key not rejected")
	}

	mid := selfSignedRSA(t, 2048)
	item = pipeline.NewItem("doc", nil)
	action, err = v.Validate(context.Background(), mid, item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Continue {
		t.Errorf("2048 bit key: action = %v, want Continue", action)
	}
	if len(pipeline.ErrorsOf(item)) != 0 {
		t.Error("2048 bit key rejected")
	}
	if len(pipeline.WarningsOf(item)) != 1 {
		t.Error("2048 bit key below warn boundary not warned about")
	}
}

func TestX509RSAExponentAcceptsStandardExponent(t *testing.T) {
	t.Parallel()

	v, err := NewX509RSAExponent("exponent", 5, 0)
	if err != nil {
		t.Fatalf("NewX509RSAExponent: %v", err)
	}

	// crypto/rsa generates keys with e = 65537.
	cert := selfSignedRSA(t, 2048)
	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), cert, item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Continue {
		t.Errorf("action = %v, want Continue", action)
	}
	if item.Metadata().Len() != 0 {
		t.Error("standard exponent annotated")
	}
}

func TestX509DSADetectorIgnoresRSA(t *testing.T) {
	t.Parallel()

	v, err := NewX509DSADetector("dsa")
	if err != nil {
		t.Fatalf("NewX509DSADetector: %v", err)
	}

	cert := selfSignedRSA(t, 2048)
	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), cert, item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Continue {
		t.Errorf("action = %v, want Continue", action)
	}
	if item.Metadata().Len() != 0 {
		t.Error("RSA certificate flagged as DSA")
	}
}
