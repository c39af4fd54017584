package s3

import (
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// BasicClient is the S3 surface used by acquisition. Implementations exist for
// the real AWS SDK and an in-memory mock for tests.
type BasicClient interface {
	Lister
	Getter
	Putter
	Deleter
}

type Lister interface {
	List(key string) (keys []string, err error)
}

type Getter interface {
	// Get returns ErrKeyNotFound if the given key doesn't exist.
	Get(key string) (data []byte, err error)
}

type Putter interface {
	Put(key string, data []byte) (err error)
}

type Deleter interface {
	Delete(key string) error
}
