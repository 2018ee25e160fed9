package fasta_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singerma/cramtools/encoding/fasta"
)

const testFastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n" + "ACGT\n"

func TestGet(t *testing.T) {
	tests := []struct {
		seq        string
		start, end uint64
		want       string
		wantErr    bool
	}{
		{"seq1", 1, 2, "C", false},
		{"seq1", 1, 6, "CGTAC", false},
		{"seq1", 0, 12, "ACGTACGTACGT", false},
		{"seq1", 10, 12, "GT", false},
		{"seq2", 0, 8, "ACGTACGT", false},
		{"seq2", 2, 5, "GTA", false},
		{"seq0", 0, 1, "", true},
		{"seq1", 10, 13, "", true},
		{"seq1", 4, 3, "", true},
	}
	f, err := fasta.New(strings.NewReader(testFastaData))
	require.NoError(t, err)
	for _, tt := range tests {
		got, err := f.Get(tt.seq, tt.start, tt.end)
		if tt.wantErr {
			assert.Error(t, err, "%s[%d:%d]", tt.seq, tt.start, tt.end)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))
	}
}

func TestLen(t *testing.T) {
	f, err := fasta.New(strings.NewReader(testFastaData))
	require.NoError(t, err)

	n, err := f.Len("seq1")
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)

	n, err = f.Len("seq2")
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)

	_, err = f.Len("seq0")
	assert.Error(t, err)
}

func TestSeqNames(t *testing.T) {
	f, err := fasta.New(strings.NewReader(testFastaData))
	require.NoError(t, err)

	got := append([]string{}, f.SeqNames()...)
	sort.Strings(got)
	assert.Equal(t, []string{"seq1", "seq2"}, got)
}

func TestNewRejectsSequenceBeforeHeader(t *testing.T) {
	_, err := fasta.New(strings.NewReader("ACGT\n>seq1\nACGT\n"))
	assert.Error(t, err)
}
