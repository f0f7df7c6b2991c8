package device

import "sync"

// PasswordBook keeps device passwords in memory.
// A device without its own password uses the default one.
type PasswordBook struct {
	mu          sync.RWMutex
	defaultPass string
	passwords   map[string]string // key is the normalized MAC
}

func NewPasswordBook(defaultPassword string) *PasswordBook {
	return &PasswordBook{
		defaultPass: defaultPassword,
		passwords:   make(map[string]string),
	}
}

func (b *PasswordBook) Default() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.defaultPass
}

func (b *PasswordBook) SetDefault(password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.defaultPass = password
}

func (b *PasswordBook) Put(mac, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.passwords[NormalizeMAC(mac)] = password
}

// Get returns the password of mac, falling back to the default.
// ok is false when neither is set.
func (b *PasswordBook) Get(mac string) (password string, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if p, found := b.passwords[NormalizeMAC(mac)]; found {
		return p, true
	}
	return b.defaultPass, b.defaultPass != ""
}
