package models

import (
	"testing"
)

func TestNotaItem_Amount(t *testing.T) {
	tests := []struct {
		name  string
		qty   float64
		price float64
		want  float64
	}{
		{"integer qty", 2, 1000, 2000},
		{"fractional qty", 1.5, 2000, 3000},
		{"zero price", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &NotaItem{Qty: tt.qty, Price: tt.price}
			if got := it.Amount(); got != tt.want {
				t.Errorf("Amount() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestNota_Total(t *testing.T) {
	n := &Nota{Items: []NotaItem{
		{Qty: 2, Price: 1500},
		{Qty: 1, Price: 2500},
		{Qty: 4, Price: 500},
	}}
	if got := n.Total(); got != 7500 {
		t.Errorf("Total() = %f, want 7500", got)
	}
}

func TestNota_TotalOrderIndependent(t *testing.T) {
	a := &Nota{Items: []NotaItem{
		{Qty: 2, Price: 1500},
		{Qty: 1, Price: 2500},
		{Qty: 4, Price: 500},
	}}
	b := &Nota{Items: []NotaItem{
		{Qty: 4, Price: 500},
		{Qty: 2, Price: 1500},
		{Qty: 1, Price: 2500},
	}}
	if a.Total() != b.Total() {
		t.Errorf("permuting lines changed total: %f vs %f", a.Total(), b.Total())
	}
	// Idempotent: repeated computation yields the same value.
	if a.Total() != a.Total() {
		t.Errorf("Total() not idempotent")
	}
}

func TestNota_StatusHelpers(t *testing.T) {
	n := &Nota{Status: NotaStatusDraft}
	if !n.IsDraft() || n.IsPublished() {
		t.Errorf("draft nota misreported")
	}
	n.Status = NotaStatusPublished
	if n.IsDraft() || !n.IsPublished() {
		t.Errorf("published nota misreported")
	}
}

func TestNota_TotalEmpty(t *testing.T) {
	n := &Nota{}
	if n.Total() != 0 {
		t.Errorf("empty nota total must be 0")
	}
}
