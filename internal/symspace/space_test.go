package symspace

import "testing"

func TestPartitionBasesAreConsecutive(t *testing.T) {
	t.Parallel()

	buckets := []RankBucket{{Rank: 0, Count: 2}, {Rank: 1, Count: 3}}
	s := New(4, buckets, 5, 6, 7)

	if got, want := s.ParamCode(0), 0; got != want {
		t.Fatalf("ParamCode(0) = %d, want %d", got, want)
	}

	if got, want := s.BuiltinCode(0), 4; got != want {
		t.Fatalf("BuiltinCode(0) = %d, want %d", got, want)
	}

	if got, want := s.MetaRuleCode(0), 10; got != want {
		t.Fatalf("MetaRuleCode(0) = %d, want %d", got, want)
	}

	if got, want := s.GrammarCode(0), 15; got != want {
		t.Fatalf("GrammarCode(0) = %d, want %d", got, want)
	}

	if got, want := s.StringCode(0), 20; got != want {
		t.Fatalf("StringCode(0) = %d, want %d", got, want)
	}

	if got, want := s.NumberCode(0), 26; got != want {
		t.Fatalf("NumberCode(0) = %d, want %d", got, want)
	}

	if got, want := s.Total(), 33; got != want {
		t.Fatalf("Total() = %d, want %d", got, want)
	}
}

func TestRankOfMetaRuleWalksBucketsInOrder(t *testing.T) {
	t.Parallel()

	buckets := []RankBucket{{Rank: 0, Count: 2}, {Rank: 2, Count: 1}}
	s := New(0, buckets, 0, 0, 0)

	cases := []struct {
		index    int
		wantRank int
	}{
		{0, 0},
		{1, 0},
		{2, 2},
	}

	for _, c := range cases {
		rank, ok := s.RankOfMetaRule(c.index)
		if !ok || rank != c.wantRank {
			t.Fatalf("RankOfMetaRule(%d) = (%d, %v), want (%d, true)", c.index, rank, ok, c.wantRank)
		}
	}

	if _, ok := s.RankOfMetaRule(3); ok {
		t.Fatalf("expected index 3 to be out of range")
	}
}

func TestClassifyRoundTripsEveryCode(t *testing.T) {
	t.Parallel()

	buckets := []RankBucket{{Rank: 0, Count: 1}, {Rank: 1, Count: 1}}
	s := New(2, buckets, 2, 2, 2)

	want := []Partition{
		PartitionParameter, PartitionParameter,
		PartitionBuiltin, PartitionBuiltin, PartitionBuiltin,
		PartitionBuiltin, PartitionBuiltin, PartitionBuiltin,
		PartitionMetaRule, PartitionMetaRule,
		PartitionGrammarKind, PartitionGrammarKind,
		PartitionString, PartitionString,
		PartitionNumber, PartitionNumber,
	}

	if s.Total() != len(want) {
		t.Fatalf("space total = %d, want %d", s.Total(), len(want))
	}

	for code, wantPartition := range want {
		partition, _, ok := s.Classify(code)
		if !ok {
			t.Fatalf("Classify(%d) reported not ok", code)
		}

		if partition != wantPartition {
			t.Fatalf("Classify(%d) = %v, want %v", code, partition, wantPartition)
		}
	}

	if _, _, ok := s.Classify(s.Total()); ok {
		t.Fatalf("expected code at Total() to be unclassifiable")
	}

	if _, _, ok := s.Classify(-1); ok {
		t.Fatalf("expected negative code to be unclassifiable")
	}
}
