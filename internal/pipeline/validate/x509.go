package validate

import (
	"context"
	"crypto/dsa"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// X509RSAKeyLength checks the modulus length of RSA public keys embedded in
// certificates. Keys shorter than the error boundary are rejected; keys
// shorter than the warning boundary get a WarningStatus. Certificates with
// non-RSA keys pass through untouched.
type X509RSAKeyLength struct {
	Base
	errorBoundary int
	warnBoundary  int
}

// NewX509RSAKeyLength creates the key length validator. Boundaries are in
// bits; a zero boundary disables that check. The usual configuration is an
// error boundary of 2048.
func NewX509RSAKeyLength(id string, errorBoundary, warnBoundary int, opts ...Option) (*X509RSAKeyLength, error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	return &X509RSAKeyLength{Base: base, errorBoundary: errorBoundary, warnBoundary: warnBoundary}, nil
}

// Validate implements Validator.
func (v *X509RSAKeyLength) Validate(_ context.Context, cert *x509.Certificate, item pipeline.Annotated, stageID string) (Action, error) {
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return Continue, nil
	}
	bits := pub.N.BitLen()
	if v.errorBoundary > 0 && bits < v.errorBoundary {
		v.AddErrorMessage(item, stageID,
			fmt.Sprintf("RSA key length of %d bits less than required %d", bits, v.errorBoundary))
		return Done, nil
	}
	if v.warnBoundary > 0 && bits < v.warnBoundary {
		v.AddWarningMessage(item, stageID,
			fmt.Sprintf("RSA key length of %d bits less than recommended %d", bits, v.warnBoundary))
	}
	return Continue, nil
}

// X509RSAExponent checks the public exponent of RSA keys: even exponents
// are always invalid, and small exponents below the error boundary are
// rejected. Non-RSA keys pass through.
type X509RSAExponent struct {
	Base
	errorBoundary int
	warnBoundary  int
}

// NewX509RSAExponent creates the exponent validator. A zero boundary
// disables that check.
func NewX509RSAExponent(id string, errorBoundary, warnBoundary int, opts ...Option) (*X509RSAExponent, error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	return &X509RSAExponent{Base: base, errorBoundary: errorBoundary, warnBoundary: warnBoundary}, nil
}

// Validate implements Validator.
func (v *X509RSAExponent) Validate(_ context.Context, cert *x509.Certificate, item pipeline.Annotated, stageID string) (Action, error) {
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return Continue, nil
	}
	e := pub.E
	if e%2 == 0 {
		v.AddErrorMessage(item, stageID,
			fmt.Sprintf("RSA public exponent %d is even", e))
		return Done, nil
	}
	if v.errorBoundary > 0 && e < v.errorBoundary {
		v.AddErrorMessage(item, stageID,
			fmt.Sprintf("RSA public exponent %d less than required %d", e, v.errorBoundary))
		return Done, nil
	}
	if v.warnBoundary > 0 && e < v.warnBoundary {
		v.AddWarningMessage(item, stageID,
			fmt.Sprintf("RSA public exponent %d less than recommended %d", e, v.warnBoundary))
	}
	return Continue, nil
}

// X509DSADetector rejects certificates carrying DSA public keys.
type X509DSADetector struct {
	Base
}

// NewX509DSADetector creates the DSA detector.
func NewX509DSADetector(id string, opts ...Option) (*X509DSADetector, error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	return &X509DSADetector{Base: base}, nil
}

// Validate implements Validator.
func (v *X509DSADetector) Validate(_ context.Context, cert *x509.Certificate, item pipeline.Annotated, stageID string) (Action, error) {
	if _, ok := cert.PublicKey.(*dsa.PublicKey); ok {
		v.AddErrorMessage(item, stageID, "DSA public key detected")
		return Done, nil
	}
	return Continue, nil
}
