// Package store contém os backends de chave-valor onde o host persiste o estado do ledger.
// Redis e Postgres são testados com -tags integration contra servidores reais.
package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound é devolvido por Get quando a chave não existe
var ErrNotFound = errors.New("key not found")

// Write é uma escrita pendente; Delete remove a chave
type Write struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Entry é um par chave/valor lido do backend
type Entry struct {
	Key   []byte
	Value []byte
}

// Backend é o substrato de persistência.
// Commit aplica todas as escritas de forma atômica: ou todas, ou nenhuma.
// Scan devolve as entradas com o prefixo em ordem crescente de chave.
type Backend interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Commit(ctx context.Context, writes []Write) error
	Scan(ctx context.Context, prefix []byte) ([]Entry, error)
	Ping(ctx context.Context) error
	Close() error
}

// Backends suportados (STORE_BACKEND)
const (
	BackendMemory   = "memory"
	BackendLevelDB  = "leveldb"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options reúne os parâmetros de conexão de todos os backends
type Options struct {
	Backend     string
	LevelDBPath string
	RedisAddr   string
	RedisPrefix string
	PostgresDSN string
}

// Open cria o backend configurado
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendLevelDB:
		return OpenLevelDB(opts.LevelDBPath)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPrefix)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// prefixEnd devolve a menor chave maior que todas as chaves com o prefixo;
// nil quando não existe (prefixo vazio ou só 0xff).
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
