package suite

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const maxWaitDuration = 60 * time.Second

// Suite boots an in-process miniredis so repository tests run hermetically,
// with no docker daemon or external redis around.
type Suite struct {
	*testing.T

	Mini    *miniredis.Miniredis
	Storage *redis.Client
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("could not start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mini.Addr(),
	})

	if err = client.Ping(ctx).Err(); err != nil {
		t.Fatalf("could not connect to miniredis: %v", err)
	}

	t.Cleanup(func() {
		if err = client.Close(); err != nil {
			t.Errorf("could not close redis client: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Mini:    mini,
		Storage: client,
	}
}
