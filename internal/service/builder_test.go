package service

import (
	"testing"

	"github.com/charmsmith/internal/constants"
)

func TestNewBuilderFillsSlotsWithStartingCharm(t *testing.T) {
	filler := charmWithPrice(1, "Plain Bead", "30")
	b := NewBuilder(17, filler)
	if len(b.Slots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(b.Slots))
	}
	for i, slot := range b.Slots {
		if slot == nil || slot.ID != filler.ID {
			t.Fatalf("slot %d not filled with starting charm: %+v", i, slot)
		}
	}
	if b.TotalPrice().String() != "510.00" {
		t.Fatalf("expected total 510.00, got %s", b.TotalPrice().String())
	}
}

func TestSetSizeResetsDesign(t *testing.T) {
	filler := charmWithPrice(1, "Plain Bead", "30")
	b := NewBuilder(17, filler)
	b.DragPlace(charmWithPrice(2, "Moon", "75"), 0)

	if err := b.SetSize(20); err != nil {
		t.Fatalf("SetSize error: %v", err)
	}
	if len(b.Slots) != 20 {
		t.Fatalf("expected 20 slots, got %d", len(b.Slots))
	}
	for i, slot := range b.Slots {
		if slot == nil || slot.ID != filler.ID {
			t.Fatalf("slot %d should be reset to starting charm, got %+v", i, slot)
		}
	}
}

func TestSetSizeRejectsOutOfRange(t *testing.T) {
	b := NewBuilder(17, nil)
	if err := b.SetSize(constants.BraceletSizeMin - 1); err != ErrInvalidBraceletSize {
		t.Fatalf("expected ErrInvalidBraceletSize, got %v", err)
	}
	if err := b.SetSize(constants.BraceletSizeMax + 1); err != ErrInvalidBraceletSize {
		t.Fatalf("expected ErrInvalidBraceletSize, got %v", err)
	}
	if len(b.Slots) != 17 {
		t.Fatalf("slots must be untouched on rejected resize, got %d", len(b.Slots))
	}
}

func TestPlaceAtRequiresArmedCharm(t *testing.T) {
	b := NewBuilder(17, nil)
	if b.PlaceAt(0) {
		t.Fatalf("expected no-op place without armed charm")
	}

	b.ArmCharm(charmWithPrice(2, "Moon", "75"))
	if b.PlaceAt(-1) || b.PlaceAt(17) {
		t.Fatalf("expected out-of-range place to be ignored")
	}
	if b.Armed == nil {
		t.Fatalf("armed charm must survive a rejected placement")
	}
	if !b.PlaceAt(3) {
		t.Fatalf("expected placement to succeed")
	}
	if b.Armed != nil {
		t.Fatalf("armed charm must be cleared after placement")
	}
	if b.Slots[3] == nil || b.Slots[3].ID != 2 {
		t.Fatalf("slot 3 should hold the placed charm")
	}
}

func TestDragPlaceIgnoresNilPayloadAndBadIndex(t *testing.T) {
	b := NewBuilder(17, nil)
	if b.DragPlace(nil, 0) {
		t.Fatalf("expected drag with nil payload to be ignored")
	}
	if b.DragPlace(charmWithPrice(2, "Moon", "75"), 99) {
		t.Fatalf("expected drag out of range to be ignored")
	}
	if !b.DragPlace(charmWithPrice(2, "Moon", "75"), 5) {
		t.Fatalf("expected drag place to succeed")
	}
}

func TestTotalPriceRecomputedAfterEveryMutation(t *testing.T) {
	filler := charmWithPrice(1, "Plain Bead", "30")
	b := NewBuilder(17, filler)
	moon := charmWithPrice(2, "Moon", "75")

	b.DragPlace(moon, 0)
	// 16 x 30 + 75
	if b.TotalPrice().String() != "555.00" {
		t.Fatalf("expected 555.00, got %s", b.TotalPrice().String())
	}
	b.ArmCharm(moon)
	b.PlaceAt(0) // 同槽覆盖，总价不变
	if b.TotalPrice().String() != "555.00" {
		t.Fatalf("expected 555.00 after overwrite, got %s", b.TotalPrice().String())
	}
}

// 场景：17 槽手链，槽 0 放 X，其余为默认填充（单价 30）。
// X 等于填充饰品时 510/1 组，否则 2 组。
func TestSeventeenSlotScenario(t *testing.T) {
	filler := charmWithPrice(1, "Plain Bead", "30")
	b := NewBuilder(17, filler)

	b.DragPlace(filler, 0)
	if b.TotalPrice().String() != "510.00" {
		t.Fatalf("expected 510.00, got %s", b.TotalPrice().String())
	}
	if groups := b.PriceBreakdown(); len(groups) != 1 {
		t.Fatalf("expected 1 group when X equals the filler, got %d", len(groups))
	}

	other := charmWithPrice(9, "Charm X", "30")
	b.DragPlace(other, 0)
	if b.TotalPrice().String() != "510.00" {
		t.Fatalf("expected 510.00 with equal-priced X, got %s", b.TotalPrice().String())
	}
	if groups := b.PriceBreakdown(); len(groups) != 2 {
		t.Fatalf("expected 2 groups when X differs from filler, got %d", len(groups))
	}
}

func TestSetStartingCharmRefillsOnlyDefaultSlots(t *testing.T) {
	oldFiller := charmWithPrice(1, "Plain Bead", "30")
	b := NewBuilder(17, oldFiller)
	moon := charmWithPrice(2, "Moon", "75")
	b.DragPlace(moon, 4)

	newFiller := charmWithPrice(3, "Rose Bead", "45")
	b.SetStartingCharm(newFiller)

	for i, slot := range b.Slots {
		if i == 4 {
			if slot.ID != moon.ID {
				t.Fatalf("customized slot must be preserved, got %+v", slot)
			}
			continue
		}
		if slot.ID != newFiller.ID {
			t.Fatalf("default slot %d should be refilled, got %+v", i, slot)
		}
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	filler := charmWithPrice(1, "Plain Bead", "30")
	b := NewBuilder(17, filler)
	design := b.Snapshot()
	if design.ID == "" {
		t.Fatalf("snapshot must carry an id")
	}
	if design.TotalPrice.String() != "510.00" {
		t.Fatalf("snapshot total mismatch: %s", design.TotalPrice.String())
	}

	b.DragPlace(charmWithPrice(2, "Moon", "75"), 0)
	if design.Slots[0].ID != filler.ID {
		t.Fatalf("snapshot must not observe later builder mutations")
	}
}

func TestLoadDesignRestoresSlots(t *testing.T) {
	filler := charmWithPrice(1, "Plain Bead", "30")
	b := NewBuilder(17, filler)
	b.DragPlace(charmWithPrice(2, "Moon", "75"), 2)
	design := b.Snapshot()

	fresh := NewBuilder(17, filler)
	fresh.LoadDesign(design)
	if fresh.Size != 17 || len(fresh.Slots) != 17 {
		t.Fatalf("unexpected size after load: %d", fresh.Size)
	}
	if fresh.Slots[2] == nil || fresh.Slots[2].ID != 2 {
		t.Fatalf("loaded design must restore customized slot")
	}
}

func TestDragPlaceClearsArmedCharm(t *testing.T) {
	b := NewBuilder(17, nil)
	b.ArmCharm(charmWithPrice(1, "Bead", "30"))

	// 拖放等价于备选+放置，结束后不得残留之前的备选
	if !b.DragPlace(charmWithPrice(2, "Moon", "75"), 1) {
		t.Fatalf("expected drag place to succeed")
	}
	if b.Armed != nil {
		t.Fatalf("armed charm must be cleared by a successful drag place")
	}
	if b.PlaceAt(0) {
		t.Fatalf("a slot click after a drag must not place a stale armed charm")
	}
	if b.Slots[0] != nil {
		t.Fatalf("slot 0 must stay empty, got %+v", b.Slots[0])
	}
}
