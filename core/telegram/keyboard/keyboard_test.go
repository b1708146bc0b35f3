package keyboard

import (
	"errors"
	"fmt"
	"testing"
)

func btns(n int) []InlineBtn {
	out := make([]InlineBtn, n)
	for i := range out {
		out[i] = InlineBtn{Text: fmt.Sprintf("b%d", i), Data: fmt.Sprintf("d%d", i)}
	}
	return out
}

func TestGridPartitionsPreservingOrder(t *testing.T) {
	for _, tc := range []struct {
		n, cols  int
		wantRows int
	}{
		{0, 2, 0},
		{1, 1, 1},
		{4, 2, 2},
		{5, 2, 3},
		{5, 3, 2},
		{2, 10, 1},
	} {
		rows, err := Grid(btns(tc.n), tc.cols)
		if err != nil {
			t.Fatalf("Grid(%d, %d): %v", tc.n, tc.cols, err)
		}
		if len(rows) != tc.wantRows {
			t.Fatalf("Grid(%d, %d): %d rows, want %d", tc.n, tc.cols, len(rows), tc.wantRows)
		}

		var flat []InlineBtn
		for _, row := range rows {
			if len(row) > tc.cols {
				t.Fatalf("Grid(%d, %d): row wider than %d", tc.n, tc.cols, tc.cols)
			}
			flat = append(flat, row...)
		}
		if len(flat) != tc.n {
			t.Fatalf("Grid(%d, %d): %d buttons out, want %d", tc.n, tc.cols, len(flat), tc.n)
		}
		for i, b := range flat {
			if b.Data != fmt.Sprintf("d%d", i) {
				t.Fatalf("Grid(%d, %d): order broken at %d: %s", tc.n, tc.cols, i, b.Data)
			}
		}
	}
}

func TestGridFooterRow(t *testing.T) {
	b := InlineBtn{Text: "item", Data: "p1"}
	f := InlineBtn{Text: "Корзина", Data: "cart"}

	rows, err := Grid([]InlineBtn{b}, 1, f)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != b || rows[1][0] != f {
		t.Fatalf("unexpected layout: %v", rows)
	}

	// Multiple footer buttons share one row.
	rows, err = Grid(nil, 1, f, InlineBtn{Text: "Оплата", Data: "payment"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("unexpected footer layout: %v", rows)
	}
}

func TestGridEmpty(t *testing.T) {
	rows, err := Grid(nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty layout, got %v", rows)
	}
}

func TestGridInvalidColumns(t *testing.T) {
	for _, cols := range []int{0, -1} {
		if _, err := Grid(btns(3), cols); !errors.Is(err, ErrInvalidColumns) {
			t.Fatalf("Grid with cols=%d: err = %v", cols, err)
		}
	}
}

func TestMarkup(t *testing.T) {
	rows, err := Grid(btns(3), 2, InlineBtn{Text: "Меню", Data: "menu"})
	if err != nil {
		t.Fatal(err)
	}
	markup := Markup(rows)
	if markup == nil {
		t.Fatal("expected markup")
	}
	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("keyboard rows = %d", len(markup.InlineKeyboard))
	}
	if markup.InlineKeyboard[0][1].Data != "d1" {
		t.Fatalf("unexpected data: %s", markup.InlineKeyboard[0][1].Data)
	}

	if Markup(nil) != nil {
		t.Fatal("nil layout should produce nil markup")
	}
}
