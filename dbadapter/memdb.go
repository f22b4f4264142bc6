// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
package dbadapter

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemDBClient is the in-memory storage backend. Documents are kept per
// collection in insertion order; filters match on top-level field equality,
// which is the only filter shape the configuration store issues.
type MemDBClient struct {
	mu    sync.RWMutex
	colls map[string][]bson.M
}

func NewMemDB() *MemDBClient {
	return &MemDBClient{colls: make(map[string][]bson.M)}
}

func matchesFilter(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// copyDoc returns a deep copy so callers never share references with the
// store. Documents are produced by JSON round trips throughout, so a JSON
// copy preserves their exact shape.
func copyDoc(doc bson.M) bson.M {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	var out bson.M
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func (db *MemDBClient) RestfulAPIGetOne(collName string, filter bson.M) (map[string]interface{}, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, doc := range db.colls[collName] {
		if matchesFilter(doc, filter) {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (db *MemDBClient) RestfulAPIGetMany(collName string, filter bson.M) ([]map[string]interface{}, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	results := make([]map[string]interface{}, 0)
	for _, doc := range db.colls[collName] {
		if matchesFilter(doc, filter) {
			results = append(results, copyDoc(doc))
		}
	}
	return results, nil
}

func (db *MemDBClient) RestfulAPIPutOne(collName string, filter bson.M, putData map[string]interface{}) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	docs := db.colls[collName]
	for i, doc := range docs {
		if matchesFilter(doc, filter) {
			docs[i] = copyDoc(putData)
			return true, nil
		}
	}
	db.colls[collName] = append(docs, copyDoc(putData))
	return false, nil
}

func (db *MemDBClient) RestfulAPIPost(collName string, filter bson.M, postData map[string]interface{}) (bool, error) {
	return db.RestfulAPIPutOne(collName, filter, postData)
}

func (db *MemDBClient) RestfulAPIDeleteOne(collName string, filter bson.M) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	docs := db.colls[collName]
	for i, doc := range docs {
		if matchesFilter(doc, filter) {
			db.colls[collName] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (db *MemDBClient) RestfulAPIDeleteMany(collName string, filter bson.M) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	docs := db.colls[collName]
	kept := docs[:0]
	for _, doc := range docs {
		if !matchesFilter(doc, filter) {
			kept = append(kept, doc)
		}
	}
	db.colls[collName] = kept
	return nil
}

func (db *MemDBClient) RestfulAPICount(collName string, filter bson.M) (int64, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var n int64
	for _, doc := range db.colls[collName] {
		if matchesFilter(doc, filter) {
			n++
		}
	}
	return n, nil
}
