package shared_test

import (
	"testing"
	"time"

	"rohatours/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("BOOKINGS_LIST_LIMIT", "")
	t.Setenv("KAFKA_BROKERS", "")

	c := shared.Load()
	if c.MongoDB != "rohatours" || c.MongoCollection != "bookings" {
		t.Fatalf("unexpected db/collection: %s/%s", c.MongoDB, c.MongoCollection)
	}
	if c.ListLimit != 50 {
		t.Fatalf("expected list limit 50, got %d", c.ListLimit)
	}
	if c.ConnectTimeout != 5*time.Second || c.OpTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts: %v %v", c.ConnectTimeout, c.OpTimeout)
	}
	if len(c.KafkaBrokers) != 0 {
		t.Fatalf("expected no brokers, got %v", c.KafkaBrokers)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("BOOKINGS_LIST_LIMIT", "500")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DEFAULT_PACKAGE", "Lalibela Explorer")

	c := shared.Load()
	if c.MongoURI != "mongodb://db:27017" {
		t.Fatalf("uri: %s", c.MongoURI)
	}
	if c.ListLimit != 50 {
		t.Fatalf("list limit must be clamped to 50, got %d", c.ListLimit)
	}
	if len(c.KafkaBrokers) != 2 || c.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers: %v", c.KafkaBrokers)
	}
	if c.DefaultPackage != "Lalibela Explorer" {
		t.Fatalf("package: %s", c.DefaultPackage)
	}
}

func TestClampListLimit(t *testing.T) {
	for in, want := range map[int]int{-1: 50, 0: 50, 1: 1, 20: 20, 50: 50, 51: 50} {
		if got := shared.ClampListLimit(in); got != want {
			t.Fatalf("ClampListLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
