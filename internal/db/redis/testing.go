package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps a (mock) rueidis client. Test helper only.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
