package cqlbind

import "fmt"

// BatchEntry is one typed operation within a composite batch. Entries built
// from different tables can be mixed in one batch; each carries its own
// codec.
type BatchEntry struct {
	build func() (BatchItem, error)
}

// InsertEntry adds an insert of rec to a batch.
func InsertEntry[T any](t *Table[T], rec T) BatchEntry {
	return BatchEntry{build: func() (BatchItem, error) {
		return t.insertItem(rec)
	}}
}

// UpdateEntry adds an update of set columns filtered by where to a batch.
func UpdateEntry[T any](t *Table[T], set, where T) BatchEntry {
	return BatchEntry{build: func() (BatchItem, error) {
		return t.updateItem(set, where)
	}}
}

// DeleteEntry adds a delete filtered by where to a batch.
func DeleteEntry[T any](t *Table[T], where T) BatchEntry {
	return BatchEntry{build: func() (BatchItem, error) {
		return t.deleteItem(where)
	}}
}

func composeBatch(entries []BatchEntry) ([]BatchItem, error) {
	items := make([]BatchItem, len(entries))
	for i, e := range entries {
		item, err := e.build()
		if err != nil {
			return nil, fmt.Errorf("batch: entry %d: %w", i, err)
		}
		items[i] = item
	}
	return items, nil
}
