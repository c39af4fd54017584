package s3

import "testing"

func TestParseDSN(t *testing.T) {
	// Test 1 - full DSN with scheme and prefix.
	b, err := ParseDSN("s3://vendor-drop/edw/daily", "eu-west-2")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if b.Name != "vendor-drop" || b.Prefix != "edw/daily" || b.Region != "eu-west-2" {
		t.Fatalf("unexpected bucket details: %+v", b)
	}
	// Test 2 - missing region is an error.
	if _, err = ParseDSN("s3://vendor-drop", ""); err == nil {
		t.Fatal("expected error for missing region; got nil")
	}
	// Test 3 - bad scheme is an error.
	if _, err = ParseDSN("http://vendor-drop", "eu-west-2"); err == nil {
		t.Fatal("expected error for bad scheme; got nil")
	}
}

func TestMockClient(t *testing.T) {
	m := NewMockClient()
	_ = m.Put("20260825/customer_20260825.csv", []byte("customer_id,email\n1,a@example.com\n"))
	_ = m.Put("20260825/sales_20260825.csv", []byte("order_id\n1\n"))
	keys, err := m.List("20260825/")
	if err != nil || len(keys) != 2 {
		t.Fatalf("expected 2 keys, nil; got %v, %v", keys, err)
	}
	if keys[0] != "20260825/customer_20260825.csv" { // List is lexically sorted.
		t.Fatal("unexpected sort order: ", keys)
	}
	if _, err = m.Get("20260825/missing.csv"); err != ErrKeyNotFound {
		t.Fatal("expected ErrKeyNotFound; got ", err)
	}
}
