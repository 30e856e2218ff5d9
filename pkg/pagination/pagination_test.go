package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		want Params
	}{
		{name: "defaults", in: Params{}, want: Params{Page: 1, Limit: DefaultLimit}},
		{name: "negative page", in: Params{Page: -3, Limit: 10}, want: Params{Page: 1, Limit: 10}},
		{name: "limit capped", in: Params{Page: 2, Limit: 500}, want: Params{Page: 2, Limit: MaxLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("expected %+v got %+v", tc.want, got)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 3, Limit: 4}).Offset(); got != 8 {
		t.Fatalf("expected offset 8, got %d", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}

func TestMeta(t *testing.T) {
	meta := Meta(Params{Page: 2, Limit: 4}, 9)
	if meta.TotalPages != 3 || meta.Page != 2 || meta.Limit != 4 || meta.Total != 9 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if empty := Meta(Params{}, 0); empty.TotalPages != 0 {
		t.Fatalf("expected zero pages for empty collection, got %d", empty.TotalPages)
	}
}
