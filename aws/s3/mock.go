package s3

import (
	"sort"
	"strings"
	"sync"
)

// MockClient is an in-memory BasicClient for tests.
type MockClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailGets holds keys whose Get should fail with ErrKeyNotFound even when
	// the object exists, to simulate transfer errors.
	FailGets map[string]struct{}
}

func NewMockClient() *MockClient {
	return &MockClient{
		objects:  make(map[string][]byte),
		FailGets: make(map[string]struct{}),
	}
}

func (m *MockClient) List(key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0)
	for k := range m.objects {
		if strings.HasPrefix(k, key) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockClient) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, bad := m.FailGets[key]; bad {
		return nil, ErrKeyNotFound
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return data, nil
}

func (m *MockClient) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MockClient) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
