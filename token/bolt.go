package token

import (
	"time"

	"github.com/boltdb/bolt"

	"github.com/bobinette/todonet/errors"
)

var (
	credentialBucket = []byte("credentials")
	credentialKey    = []byte("access_token")
)

// Driver wraps the connection to the bolt file backing the store.
type Driver struct {
	store *bolt.DB
}

// Open opens the bolt database at path, creating the credential bucket
// if needed.
func (d *Driver) Open(path string) error {
	if d.store != nil {
		return errors.New("store already open")
	}

	store, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return err
	}

	err = store.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(credentialBucket)
		return err
	})
	if err != nil {
		store.Close()
		return err
	}

	d.store = store
	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	if d.store != nil {
		err := d.store.Close()
		d.store = nil
		return err
	}
	return nil
}

// BoltStore persists the credential in a bolt file.
type BoltStore struct {
	Driver *Driver
}

func (s *BoltStore) Save(token string) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialBucket)
		return bucket.Put(credentialKey, []byte(token))
	})
}

func (s *BoltStore) Read() (string, error) {
	var token string
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialBucket)
		if data := bucket.Get(credentialKey); data != nil {
			token = string(data)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func (s *BoltStore) Clear() error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialBucket)
		return bucket.Delete(credentialKey)
	})
}
