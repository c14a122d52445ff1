package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMulInt(t *testing.T) {
	price := NewMoneyFromDecimal(decimal.RequireFromString("19.99"))
	if got := price.MulInt(3).String(); got != "59.97" {
		t.Fatalf("expected 59.97, got %s", got)
	}
	if got := price.MulInt(0).String(); got != "0.00" {
		t.Fatalf("expected 0.00 for zero quantity, got %s", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	price := NewMoneyFromDecimal(decimal.RequireFromString("30"))
	data, err := json.Marshal(price)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"30.00"` {
		t.Fatalf("expected \"30.00\", got %s", string(data))
	}

	var parsed Money
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !parsed.Decimal.Equal(price.Decimal) {
		t.Fatalf("round trip mismatch: %s vs %s", parsed.String(), price.String())
	}
}
