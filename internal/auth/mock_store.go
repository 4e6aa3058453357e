package auth

// MockStore is an in-memory credential store for testing.
type MockStore struct {
	creds map[string]Credentials
}

func NewMockStore() *MockStore {
	return &MockStore{creds: make(map[string]Credentials)}
}

func (m *MockStore) Save(account string, creds Credentials) error {
	m.creds[NormalizeAccount(account)] = creds
	return nil
}

func (m *MockStore) Load(account string) (Credentials, error) {
	creds, ok := m.creds[NormalizeAccount(account)]
	if !ok {
		return Credentials{}, ErrCredentialsNotFound
	}
	return creds, nil
}

func (m *MockStore) Delete(account string) error {
	key := NormalizeAccount(account)
	if _, ok := m.creds[key]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.creds, key)
	return nil
}
