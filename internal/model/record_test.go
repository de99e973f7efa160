package model

import (
	"strings"
	"testing"
)

func TestRecord_KeepsInsertionOrder(t *testing.T) {
	rec := NewRecord(3)
	rec.Set("Sähköpostiosoite", "a@example.com")
	rec.Set("Koko nimi", "Alice")
	rec.Set(UrlField, "")

	if got := strings.Join(rec.Names(), ","); got != "Sähköpostiosoite,Koko nimi,Url" {
		t.Errorf("names = %q", got)
	}
	if got := strings.Join(rec.Values(), ","); got != "a@example.com,Alice," {
		t.Errorf("values = %q", got)
	}
	if rec.Len() != 3 {
		t.Errorf("len = %d", rec.Len())
	}
}

func TestRecord_SetReplacesInPlace(t *testing.T) {
	rec := NewRecord(0)
	rec.Set("a", "1")
	rec.Set("b", "2")
	rec.Set("a", "3")

	if rec.Len() != 2 {
		t.Fatalf("len = %d, want 2", rec.Len())
	}
	if v, ok := rec.Get("a"); !ok || v != "3" {
		t.Errorf("a = %q (%v)", v, ok)
	}
	if rec.Names()[0] != "a" {
		t.Errorf("replaced field moved: %v", rec.Names())
	}
}

func TestRecord_ZeroValue(t *testing.T) {
	var rec Record
	if _, ok := rec.Get("missing"); ok {
		t.Error("zero record should be empty")
	}
	rec.Set("x", "y")
	if v, _ := rec.Get("x"); v != "y" {
		t.Errorf("x = %q", v)
	}
}

func TestRecord_FieldsIsACopy(t *testing.T) {
	rec := NewRecord(1)
	rec.Set("a", "1")
	fields := rec.Fields()
	fields[0].Value = "changed"
	if v, _ := rec.Get("a"); v != "1" {
		t.Errorf("record mutated through Fields(): %q", v)
	}
}
