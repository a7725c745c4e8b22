package types

import "testing"

func TestSignVerify(t *testing.T) {
	priv := GeneratePrivateKey()
	pk := priv.PublicKey()
	h := HashUint64(0xdeadbeef)
	sig := priv.SignHash(h)
	if !pk.VerifyHash(h, sig) {
		t.Fatal("signature should verify")
	}
	if pk.VerifyHash(HashUint64(0), sig) {
		t.Fatal("signature should not verify against a different hash")
	}
	other := GeneratePrivateKey().PublicKey()
	if other.VerifyHash(h, sig) {
		t.Fatal("signature should not verify under a different key")
	}
	sig.S[0] ^= 1
	if pk.VerifyHash(h, sig) {
		t.Fatal("tampered signature should not verify")
	}
}

func TestSignDeterministic(t *testing.T) {
	priv := GeneratePrivateKey()
	h := HashUint64(99)
	if priv.SignHash(h) != priv.SignHash(h) {
		t.Fatal("signing the same hash twice should produce the same signature")
	}
}

func TestAggregateSign(t *testing.T) {
	a, b := GeneratePrivateKey(), GeneratePrivateKey()
	h := HashUint64(777)

	nonce := CombineNonces(a.NonceFor(h), b.NonceFor(h))
	sum := SumKeys(a.PublicKey(), b.PublicKey())

	sa := a.SignWithNonce(h, nonce, sum)
	sb := b.SignWithNonce(h, nonce, sum)
	sig, err := SumSignatures(sa, sb)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.VerifyHash(h, sig) {
		t.Fatal("aggregate signature should verify under the summed key")
	}
	if a.PublicKey().VerifyHash(h, sig) {
		t.Fatal("aggregate signature should not verify under a single key")
	}
}

func TestSumSignaturesMismatch(t *testing.T) {
	priv := GeneratePrivateKey()
	s1 := priv.SignHash(HashUint64(1))
	s2 := priv.SignHash(HashUint64(2))
	if _, err := SumSignatures(s1, s2); err == nil {
		t.Fatal("expected error for signatures with different challenges")
	}
}

func TestPublicKeyNounShape(t *testing.T) {
	priv := GeneratePrivateKey()
	pk := priv.PublicKey()
	if got := pk.Noun().Words(); got != 13 {
		t.Fatalf("public key noun should have 13 leaves, got %d", got)
	}
	sig := priv.SignHash(HashUint64(5))
	if got := sig.Noun().Words(); got != 16 {
		t.Fatalf("signature noun should have 16 leaves, got %d", got)
	}
}

func TestPublicKeyStringRoundtrip(t *testing.T) {
	pk := GeneratePrivateKey().PublicKey()
	var pk2 PublicKey
	if err := pk2.UnmarshalText([]byte(pk.String())); err != nil {
		t.Fatal(err)
	}
	if pk != pk2 {
		t.Fatal("base58 roundtrip mismatch")
	}
}

func TestPrivateKeyZero(t *testing.T) {
	priv := GeneratePrivateKey()
	pub := priv.PublicKey()
	h := HashUint64(1)
	sig := priv.SignHash(h)
	if !pub.VerifyHash(h, sig) {
		t.Fatal("signature should verify before the key is destroyed")
	}
	priv.Zero()
	for i, b := range priv {
		if b != 0 {
			t.Fatalf("key byte %d not cleared", i)
		}
	}
}
