// internal/common/database/redis_test.go

package database

import "testing"

func TestNewRedisClientFromURLRejectsBadURL(t *testing.T) {
	client, err := NewRedisClientFromURL("not-a-redis-url")
	if err == nil {
		t.Fatal("expected error for malformed Redis URL")
	}
	if client != nil {
		t.Fatal("expected nil client on parse failure")
	}
}
