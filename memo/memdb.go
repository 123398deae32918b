package memo

import (
	"errors"

	memdb "github.com/hashicorp/go-memdb"
)

var _ Store = (*MemDBStore)(nil)

const (
	memdbTable = "memo"
	memdbIndex = "id"
)

type memdbEntry struct {
	Token string
	Value any
}

// MemDBStore keeps results in an in-memory go-memdb table. Entries live until
// deleted.
type MemDBStore struct {
	db *memdb.MemDB
}

func NewMemDBStore() (*MemDBStore, error) {
	db, err := memdb.NewMemDB(&memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memdbTable: {
				Name: memdbTable,
				Indexes: map[string]*memdb.IndexSchema{
					memdbIndex: {
						Name:    memdbIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Token"},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return &MemDBStore{db: db}, nil
}

func (m *MemDBStore) Get(token string) (any, bool, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memdbTable, memdbIndex, token)
	if err != nil || raw == nil {
		return nil, false, err
	}
	return raw.(*memdbEntry).Value, true, nil
}

func (m *MemDBStore) Set(token string, value any) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(memdbTable, &memdbEntry{Token: token, Value: value}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *MemDBStore) Delete(token string) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	err := txn.Delete(memdbTable, &memdbEntry{Token: token})
	if errors.Is(err, memdb.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	txn.Commit()
	return nil
}
