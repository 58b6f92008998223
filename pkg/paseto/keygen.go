package pasetotoken

import paseto "aidanwoods.dev/go-paseto"

// GenerateLocalKeyHex returns a fresh symmetric key for v4.local deployments.
func GenerateLocalKeyHex() string {
	return paseto.NewV4SymmetricKey().ExportHex()
}

// GeneratePublicKeyPairHex returns a fresh ed25519 pair for v4.public
// deployments.
func GeneratePublicKeyPairHex() (secretHex, publicHex string) {
	sk := paseto.NewV4AsymmetricSecretKey()
	return sk.ExportHex(), sk.Public().ExportHex()
}
