package privcache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mdrews/courselens/internal/app/system/privcache"
	"github.com/mdrews/courselens/internal/domain/models"
	"go.uber.org/zap"
)

func TestMemory_SetGet(t *testing.T) {
	c := privcache.NewMemory(time.Minute)
	ctx := context.Background()

	want := models.InstructorPrivilege{CanViewStudentInSections: true, CanModifyStudent: false}
	c.Set(ctx, "pat@example.edu", "CS2103", "Tutorial A", want)

	got, ok := c.Get(ctx, "pat@example.edu", "CS2103", "Tutorial A")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMemory_Miss(t *testing.T) {
	c := privcache.NewMemory(time.Minute)

	if _, ok := c.Get(context.Background(), "pat@example.edu", "CS2103", "Tutorial A"); ok {
		t.Error("expected a miss on an empty cache")
	}
}

func TestMemory_KeysAreDistinct(t *testing.T) {
	c := privcache.NewMemory(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "pat@example.edu", "CS2103", "Tutorial A",
		models.InstructorPrivilege{CanViewStudentInSections: true})

	// Same course, different section: must not collide.
	if _, ok := c.Get(ctx, "pat@example.edu", "CS2103", "Tutorial B"); ok {
		t.Error("expected a miss for a different section")
	}
	// Same section name, different instructor.
	if _, ok := c.Get(ctx, "lee@example.edu", "CS2103", "Tutorial A"); ok {
		t.Error("expected a miss for a different instructor")
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := privcache.NewMemory(10 * time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "pat@example.edu", "CS2103", "Tutorial A",
		models.InstructorPrivilege{CanViewStudentInSections: true})
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get(ctx, "pat@example.edu", "CS2103", "Tutorial A"); ok {
		t.Error("expected the entry to have expired")
	}
}

// TestRedis_SetGet exercises the Redis implementation against a real
// server. Set COURSELENS_TEST_REDIS_ADDR (e.g. localhost:6379) to run it.
func TestRedis_SetGet(t *testing.T) {
	addr := os.Getenv("COURSELENS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("COURSELENS_TEST_REDIS_ADDR not set; skipping Redis cache test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { rdb.Close() })

	c := privcache.NewRedis(rdb, time.Minute, zap.NewNop())

	want := models.InstructorPrivilege{CanViewStudentInSections: true, CanModifyStudent: true}
	c.Set(ctx, "pat@example.edu", "CS2103", "Tutorial A", want)

	got, ok := c.Get(ctx, "pat@example.edu", "CS2103", "Tutorial A")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
