// Package session persists the ledger between runs as an opaque blob.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/akka"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned by a Store when no session exists under an id.
var ErrNotFound = errors.New("session not found")

// version prefixes every blob so the format can evolve.
const version byte = 1

// Store saves and loads session blobs.
type Store interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, blob []byte) error
}

// Encode serializes a ledger state into an opaque blob.
func Encode(st akka.State) ([]byte, error) {
	body, err := msgpack.Marshal(&st)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return append([]byte{version}, body...), nil
}

// Decode parses a blob produced by Encode.
func Decode(blob []byte) (akka.State, error) {
	var st akka.State
	if len(blob) == 0 {
		return st, errors.New("decode session: empty blob")
	}
	if blob[0] != version {
		return st, fmt.Errorf("decode session: unsupported version %d", blob[0])
	}
	if err := msgpack.Unmarshal(blob[1:], &st); err != nil {
		return st, fmt.Errorf("decode session: %w", err)
	}
	return st, nil
}

// Save encodes the ledger state and stores it under id.
func Save(ctx context.Context, s Store, id string, l *akka.Ledger) error {
	blob, err := Encode(l.State())
	if err != nil {
		return err
	}
	return s.Save(ctx, id, blob)
}

// Load restores the ledger stored under id. When no session exists, the
// state returned by seed is used instead.
func Load(ctx context.Context, s Store, id string, registry *akka.Registry, seed func() akka.State, opts ...akka.Option) (*akka.Ledger, error) {
	var st akka.State
	blob, err := s.Load(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound) && seed != nil:
		st = seed()
	case errors.Is(err, ErrNotFound):
		return akka.NewLedger(registry, opts...), nil
	case err != nil:
		return nil, err
	default:
		if st, err = Decode(blob); err != nil {
			return nil, err
		}
	}
	return akka.Restore(registry, st, opts...)
}
