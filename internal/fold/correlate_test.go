package fold

import (
	"math"
	"testing"
)

// the transform path must agree with direct pairwise scoring on every
// diagonal, within rounding
const diagTolerance = 1e-6

func Test_correlate_matchesBruteForce(t *testing.T) {
	type args struct {
		seq    string
		parent []int // nil means the whole sequence
	}
	tests := []struct {
		name string
		args args
	}{
		{
			"hairpin former",
			args{seq: "GGGGAAAACCCC"},
		},
		{
			"no complementary bases",
			args{seq: "AAAAAAAA"},
		},
		{
			"single base",
			args{seq: "G"},
		},
		{
			"mixed with wobble pairs",
			args{seq: "GGGUUUGCGGUGUAAGUGCAGCCCGUCUUACACCGUGCGGCACAGGCACUAGUACUGAUGUCGUAUACAGGGCUUUUGACAU"},
		},
		{
			"with wildcards",
			args{seq: "GGNGAAUACNCC"},
		},
		{
			"contiguous sub-range",
			args{seq: "GGGUUUGCGGUGUAAGUGCAGCCC", parent: []int{4, 5, 6, 7, 8, 9, 10, 11, 12}},
		},
		{
			"concatenated exterior range",
			args{seq: "GGGGAAAACCCC", parent: []int{8, 9, 10, 11, 0, 1, 2, 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := NewSequence(tt.args.seq)
			if err != nil {
				t.Fatal(err)
			}
			enc := NewEncoding(seq, Weights{AU: 2, GC: 3, GU: 1})

			w := wholeWindow(enc)
			if tt.args.parent != nil {
				w = &window{enc: enc, parent: tt.args.parent}
			}

			got := correlate(w)
			want := bruteDiagonals(w)

			if len(got) != len(want) {
				t.Fatalf("correlate() returned %d diagonals, want %d", len(got), len(want))
			}
			for d := range want {
				if math.Abs(got[d]-want[d]) > diagTolerance {
					t.Errorf("diagonal %d = %v, want %v", d, got[d], want[d])
				}
			}
		})
	}
}

func Test_correlate_diagonalValues(t *testing.T) {
	seq, _ := NewSequence("GGGGAAAACCCC")
	enc := NewEncoding(seq, Weights{AU: 2, GC: 3, GU: 1})

	diag := correlate(wholeWindow(enc))

	// diagonal 11 holds the pairs (0,11),(1,10),(2,9),(3,8), all G-C,
	// counted in both orders by the correlation
	if math.Abs(diag[11]-24) > diagTolerance {
		t.Errorf("diagonal 11 = %v, want 24", diag[11])
	}

	// diagonal 0 holds only the self pairing (0,0)
	if math.Abs(diag[0]) > diagTolerance {
		t.Errorf("diagonal 0 = %v, want 0", diag[0])
	}
}

func Test_padLen(t *testing.T) {
	type args struct {
		n int
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{"exact power", args{8}, 8},
		{"rounds up", args{9}, 16},
		{"one", args{1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padLen(tt.args.n); got != tt.want {
				t.Errorf("padLen(%d) = %d, want %d", tt.args.n, got, tt.want)
			}
		})
	}
}
