package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB é um backend embarcado em disco; o commit usa um leveldb.Batch
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB abre (ou cria) a base em path, recuperando-a se estiver corrompida
func OpenLevelDB(path string) (*LevelDB, error) {
	const cache = 64
	db, err := leveldb.OpenFile(path, &opt.Options{
		OpenFilesCacheCapacity: 64,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*lerrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", path)
	}
	return &LevelDB{db: db}, nil
}

// NewMemLevelDB cria uma base LevelDB sobre armazenamento em memória
func NewMemLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "open mem leveldb")
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(_ context.Context, key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "leveldb get")
	}
	return v, nil
}

func (l *LevelDB) Commit(_ context.Context, writes []Write) error {
	batch := new(leveldb.Batch)
	for _, w := range writes {
		if w.Delete {
			batch.Delete(w.Key)
			continue
		}
		batch.Put(w.Key, w.Value)
	}
	if err := l.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "leveldb write batch")
	}
	return nil
}

func (l *LevelDB) Scan(_ context.Context, prefix []byte) ([]Entry, error) {
	it := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	var out []Entry
	for it.Next() {
		// o iterador reaproveita os buffers
		out = append(out, Entry{
			Key:   append([]byte(nil), it.Key()...),
			Value: append([]byte(nil), it.Value()...),
		})
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(err, "leveldb iterate")
	}
	return out, nil
}

func (l *LevelDB) Ping(context.Context) error {
	_, err := l.db.GetProperty("leveldb.stats")
	return errors.Wrap(err, "leveldb ping")
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
