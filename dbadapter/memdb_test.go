// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package dbadapter

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMemDBPutGetDelete(t *testing.T) {
	db := NewMemDB()
	coll := "testData.items"

	existed, err := db.RestfulAPIPutOne(coll, bson.M{"name": "a"}, bson.M{"name": "a", "value": 1})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if existed {
		t.Errorf("expected first put to report a new document")
	}

	existed, err = db.RestfulAPIPutOne(coll, bson.M{"name": "a"}, bson.M{"name": "a", "value": 2})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if !existed {
		t.Errorf("expected second put to report replacement")
	}

	doc, err := db.RestfulAPIGetOne(coll, bson.M{"name": "a"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(doc) == 0 {
		t.Fatalf("expected a document")
	}

	if err = db.RestfulAPIDeleteOne(coll, bson.M{"name": "a"}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	doc, err = db.RestfulAPIGetOne(coll, bson.M{"name": "a"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("expected document to be gone, got %v", doc)
	}
}

func TestMemDBGetManyPreservesInsertionOrder(t *testing.T) {
	db := NewMemDB()
	coll := "testData.items"
	names := []string{"c", "a", "b"}
	for _, name := range names {
		if _, err := db.RestfulAPIPutOne(coll, bson.M{"name": name}, bson.M{"name": name}); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	docs, err := db.RestfulAPIGetMany(coll, bson.M{})
	if err != nil {
		t.Fatalf("get many failed: %v", err)
	}
	if len(docs) != len(names) {
		t.Fatalf("expected %d documents, got %d", len(names), len(docs))
	}
	for i, doc := range docs {
		if doc["name"] != names[i] {
			t.Errorf("position %d: expected %q, got %v", i, names[i], doc["name"])
		}
	}
}

func TestMemDBGetOneReturnsCopy(t *testing.T) {
	db := NewMemDB()
	coll := "testData.items"
	if _, err := db.RestfulAPIPutOne(coll, bson.M{"name": "a"}, bson.M{"name": "a", "value": "original"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	doc, err := db.RestfulAPIGetOne(coll, bson.M{"name": "a"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	doc["value"] = "mutated"

	doc, err = db.RestfulAPIGetOne(coll, bson.M{"name": "a"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc["value"] != "original" {
		t.Errorf("caller mutation leaked into the store: %v", doc["value"])
	}
}

func TestMemDBCountAndDeleteMany(t *testing.T) {
	db := NewMemDB()
	coll := "testData.items"
	for _, doc := range []bson.M{
		{"name": "a", "kind": "x"},
		{"name": "b", "kind": "x"},
		{"name": "c", "kind": "y"},
	} {
		if _, err := db.RestfulAPIPutOne(coll, bson.M{"name": doc["name"]}, doc); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	n, err := db.RestfulAPICount(coll, bson.M{"kind": "x"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 documents of kind x, got %d", n)
	}
	if err = db.RestfulAPIDeleteMany(coll, bson.M{"kind": "x"}); err != nil {
		t.Fatalf("delete many failed: %v", err)
	}
	n, err = db.RestfulAPICount(coll, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 remaining document, got %d", n)
	}
}
