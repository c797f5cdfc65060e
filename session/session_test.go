package session

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/etnz/akka"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *akka.Registry {
	t.Helper()
	r, err := akka.DefaultRegistry("EUR")
	require.NoError(t, err)
	return r
}

// stores returns every Store implementation, backed by throwaway resources.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return map[string]Store{
		"file":  FileStore{Dir: t.TempDir()},
		"redis": &RedisStore{Client: client, Prefix: "test:"},
	}
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	registry := testRegistry(t)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(ctx, "carlos")
			require.ErrorIs(t, err, ErrNotFound)

			l := akka.NewLedger(registry)
			_, err = l.Deposit(akka.M(1000, "EUR"), "ES91 2100 0418 4502 0005 1332")
			require.NoError(t, err)
			_, err = l.Buy("BTC", akka.Q(0.01), akka.M(500, "EUR"))
			require.NoError(t, err)
			_, err = l.Send("EUR", akka.Q(250), "Maria Garcia")
			require.NoError(t, err)

			require.NoError(t, Save(ctx, store, "carlos", l))

			got, err := Load(ctx, store, "carlos", registry, nil)
			require.NoError(t, err)

			want, have := l.Snapshot(), got.Snapshot()
			assert.True(t, have.Fiat().Equal(akka.M(250, "EUR")), "fiat = %v", have.Fiat())
			assert.True(t, have.Position("BTC").Equal(akka.Q(0.01)))
			require.Equal(t, want.Len(), have.Len())

			var wantTxs, haveTxs []akka.Transaction
			for tx := range want.Transactions() {
				wantTxs = append(wantTxs, tx)
			}
			for tx := range have.Transactions() {
				haveTxs = append(haveTxs, tx)
			}
			for i := range wantTxs {
				assert.True(t, wantTxs[i].Equal(haveTxs[i]), "transaction %d: want %+v, got %+v", i, wantTxs[i], haveTxs[i])
			}
		})
	}
}

func TestLoad_Seed(t *testing.T) {
	ctx := context.Background()
	registry := testRegistry(t)

	l, err := Load(ctx, FileStore{Dir: t.TempDir()}, "demo", registry, func() akka.State { return akka.DemoState("EUR") })
	require.NoError(t, err)

	snap := l.Snapshot()
	assert.True(t, snap.Fiat().Equal(akka.M(3250.45, "EUR")))
	assert.True(t, snap.Position("ETH").Equal(akka.Q(2.5)))
	assert.Equal(t, 5, snap.Len())

	newest, _ := first(snap.Transactions())
	assert.Equal(t, "demo-1", newest.ID)
}

func TestLoad_Empty(t *testing.T) {
	l, err := Load(context.Background(), FileStore{Dir: t.TempDir()}, "new", testRegistry(t), nil)
	require.NoError(t, err)
	assert.True(t, l.Snapshot().Fiat().IsZero())
	assert.Equal(t, 0, l.Snapshot().Len())
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := &RedisStore{Client: client, Prefix: "akka:session:", TTL: time.Hour}
	require.NoError(t, store.Save(context.Background(), "carlos", []byte{1, 2, 3}))

	assert.True(t, mr.Exists("akka:session:carlos"))
	assert.Equal(t, time.Hour, mr.TTL("akka:session:carlos"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(context.Background(), "carlos")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)

	_, err = Decode([]byte{42, 0x80})
	assert.ErrorContains(t, err, "unsupported version")

	blob, err := Encode(akka.DemoState("EUR"))
	require.NoError(t, err)
	_, err = Decode(blob[:len(blob)/2])
	assert.Error(t, err)
}

func TestFileStore_InvalidID(t *testing.T) {
	store := FileStore{Dir: t.TempDir()}
	assert.Error(t, store.Save(context.Background(), "../escape", []byte{1}))
	_, err := store.Load(context.Background(), "a/b")
	assert.Error(t, err)
}

func first[T any](seq iter.Seq[T]) (T, bool) {
	for v := range seq {
		return v, true
	}
	var zero T
	return zero, false
}
