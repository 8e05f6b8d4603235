package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultLimit},
		{in: -3, want: DefaultLimit},
		{in: 12, want: 12},
		{in: MaxLimit, want: MaxLimit},
		{in: MaxLimit + 50, want: MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	if got := NormalizePage(0); got != 1 {
		t.Fatalf("NormalizePage(0) = %d, want 1", got)
	}
	if got := NormalizePage(-7); got != 1 {
		t.Fatalf("NormalizePage(-7) = %d, want 1", got)
	}
	if got := NormalizePage(4); got != 4 {
		t.Fatalf("NormalizePage(4) = %d, want 4", got)
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 25); got != 0 {
		t.Fatalf("Offset(1, 25) = %d, want 0", got)
	}
	if got := Offset(3, 12); got != 24 {
		t.Fatalf("Offset(3, 12) = %d, want 24", got)
	}
	if got := Offset(0, 0); got != 0 {
		t.Fatalf("Offset(0, 0) = %d, want 0", got)
	}
}
