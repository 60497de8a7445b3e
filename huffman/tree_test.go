package huffman

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	iczahuffman "github.com/icza/huffman"
)

func assertPrefixFree(t *testing.T, codes map[string]Code) {
	t.Helper()
	for s1, c1 := range codes {
		for s2, c2 := range codes {
			if s1 == s2 {
				continue
			}
			if c1 == c2 {
				t.Errorf("symbols %q and %q share code %s", s1, s2, c1)
			}
			if c1.isPrefixOf(c2) {
				t.Errorf("code %s (%q) is a prefix of %s (%q)", c1, s1, c2, s2)
			}
		}
	}
}

// For {a:3, b:1, EOF:1} the code lengths are fully determined: a gets 1 bit,
// the other two get 2 bits each.
func TestBuildCodeMapAAAB(t *testing.T) {
	codes, err := BuildCodeMap(map[string]int{"a": 3, "b": 1, eofMark: 1})
	if err != nil {
		t.Fatalf("BuildCodeMap: %v", err)
	}
	if len(codes) != 3 {
		t.Fatalf("have %d codes, want 3", len(codes))
	}
	if got := codes["a"].Len(); got != 1 {
		t.Errorf("code for \"a\" is %d bits, want 1", got)
	}
	if got := codes["b"].Len(); got != 2 {
		t.Errorf("code for \"b\" is %d bits, want 2", got)
	}
	if got := codes[eofMark].Len(); got != 2 {
		t.Errorf("code for the EOF symbol is %d bits, want 2", got)
	}
	assertPrefixFree(t, codes)
}

func TestBuildCodeMapPrefixFree(t *testing.T) {
	freq := make(map[string]int)
	for i, r := range "abcdefghijklmnopqrstuvwxyz" {
		freq[string(r)] = i*i%13 + 1
	}
	freq[eofMark] = 1

	codes, err := BuildCodeMap(freq)
	if err != nil {
		t.Fatalf("BuildCodeMap: %v", err)
	}
	if len(codes) != len(freq) {
		t.Errorf("have %d codes, want %d", len(codes), len(freq))
	}
	assertPrefixFree(t, codes)
}

// Equal weights resolve by creation order, so repeated builds of the same
// table must yield identical codes, not merely identical lengths.
func TestBuildCodeMapDeterministic(t *testing.T) {
	freq := map[string]int{
		"a": 2, "b": 2, "c": 2, "d": 2,
		"e": 1, "f": 1, "g": 1,
		eofMark: 1,
	}
	first, err := BuildCodeMap(freq)
	if err != nil {
		t.Fatalf("BuildCodeMap: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := BuildCodeMap(freq)
		if err != nil {
			t.Fatalf("BuildCodeMap #%d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("build %d produced %v, first build produced %v", i, again, first)
		}
	}
}

// A lone symbol still needs a writable code: 1 bit, not 0.
func TestBuildCodeMapSingleSymbol(t *testing.T) {
	codes, err := BuildCodeMap(map[string]int{eofMark: 1})
	if err != nil {
		t.Fatalf("BuildCodeMap: %v", err)
	}
	if got := codes[eofMark].Len(); got != 1 {
		t.Errorf("lone symbol got a %d-bit code, want 1", got)
	}
}

func TestBuildCodeMapEmptyTable(t *testing.T) {
	if _, err := BuildCodeMap(nil); err == nil {
		t.Error("empty table built without error")
	}
}

// Fibonacci weights force a maximally skewed tree; once it is deeper than
// the header's 5-bit length field can describe, the build must fail instead
// of emitting an unrepresentable code.
func TestBuildCodeMapCodeTooLong(t *testing.T) {
	freq := make(map[string]int)
	a, b := 1, 1
	for i := 0; i < 34; i++ {
		freq[string(rune('a'+i))] = a
		a, b = b, a+b
	}
	_, err := BuildCodeMap(freq)
	if !errors.Is(err, ErrFieldOverflow) {
		t.Errorf("err = %v, want ErrFieldOverflow", err)
	}
}

// The weighted code length must match an independent Huffman implementation.
func TestCodeLengthsAreOptimal(t *testing.T) {
	tables := []map[string]int{
		{"a": 3, "b": 1, "c": 1},
		{"a": 5, "b": 2, "c": 1, "d": 1, "e": 1},
		{"e": 45, "t": 13, "a": 12, "o": 8, "i": 7, "n": 6},
		{"a": 1, "b": 1, "c": 1, "d": 1},
		{"a": 8, "b": 4, "c": 2, "d": 1, eofMark: 1},
	}
	for _, freq := range tables {
		codes, err := BuildCodeMap(freq)
		if err != nil {
			t.Fatalf("BuildCodeMap(%v): %v", freq, err)
		}
		got := 0
		for s, c := range codes {
			got += freq[s] * c.Len()
		}

		symbols := make([]string, 0, len(freq))
		for s := range freq {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)
		leaves := make([]*iczahuffman.Node, len(symbols))
		for i, s := range symbols {
			leaves[i] = &iczahuffman.Node{Value: iczahuffman.ValueType(i), Count: freq[s]}
		}
		iczahuffman.Build(leaves)
		want := 0
		for _, leaf := range leaves {
			_, bits := leaf.Code()
			want += leaf.Count * int(bits)
		}

		if got != want {
			t.Errorf("table %v: weighted code length %d, reference says %d", freq, got, want)
		}
	}
}
