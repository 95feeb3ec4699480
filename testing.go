package surgdb

// This file provides deterministic constructors for tests and examples.
// The material below is fixed and public; never use it outside tests.

var (
	testMaster = []byte("surgdb-test-master-key-material!")
	testSalt   = []byte("surgdb-test-salt")
)

// NewTestKeyring returns a keyring derived from fixed test material.
func NewTestKeyring(opts ...KeyringOption) *Keyring {
	k, err := NewKeyring(testMaster, testSalt, opts...)
	if err != nil {
		panic("surgdb: test keyring: " + err.Error())
	}
	return k
}

// NewTestEngine returns an engine over NewTestKeyring, for use in tests that
// need stable keys without wiring a secret provider.
func NewTestEngine(opts ...Option) *Engine {
	e, err := New(NewTestKeyring(), opts...)
	if err != nil {
		panic("surgdb: test engine: " + err.Error())
	}
	return e
}
