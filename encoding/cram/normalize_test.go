package cram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singerma/cramtools/encoding/cram/itf8"
)

func newTestSubstitutionMatrix(t *testing.T) *SubstitutionMatrix {
	t.Helper()
	sm, err := readSubstitutionMatrix(itf8.NewCursor(identityMatrixBytes()))
	require.NoError(t, err)
	return sm
}

// TestRestoreBasesSubstitution covers a record whose only feature is a
// single substitution: the expanded bases equal the reference bases
// except at that one offset, and the feature records the consumed
// reference base and resulting alternate base.
func TestRestoreBasesSubstitution(t *testing.T) {
	n := &Normalizer{
		RefBases:           []byte("AAAAAAAAAA"),
		SubstitutionMatrix: newTestSubstitutionMatrix(t),
	}
	r := &Record{
		AlignmentStart: 1,
		ReadLength:     5,
		ReadFeatures: []ReadFeature{
			{Operator: FeatureSubstitution, Position: 3, Code: 0}, // A->C, per identity matrix
		},
	}
	require.NoError(t, n.restoreBases([]*Record{r}))
	assert.Equal(t, []byte("AACAA"), r.Bases)
	assert.Equal(t, byte('A'), r.ReadFeatures[0].RefBase)
}

// TestRestoreBasesInsertionAndDeletion covers an insertion shifting the
// read cursor ahead of the reference cursor and a deletion shifting the
// reference cursor ahead of the read cursor: 2 reference bases consumed
// before the insertion, the insertion's 2 bases land at that read
// offset, the deletion then skips 2 reference bases without touching
// the read, leaving the reference cursor 2 bases ahead of where a
// feature-free read of the same length would have left it, so the
// remaining reference fills out the tail starting from that advanced
// position.
func TestRestoreBasesInsertionAndDeletion(t *testing.T) {
	n := &Normalizer{
		RefBases:           []byte("ACGTACGT"),
		SubstitutionMatrix: newTestSubstitutionMatrix(t),
	}
	r := &Record{
		AlignmentStart: 1,
		ReadLength:     8,
		ReadFeatures: []ReadFeature{
			{Operator: FeatureInsertion, Position: 3, Bases: []byte("NN")},
			{Operator: FeatureDeletion, Position: 5, Length: 2},
		},
	}
	require.NoError(t, n.restoreBases([]*Record{r}))
	assert.Equal(t, []byte("ACNNACGT"), r.Bases)
}

// TestRestoreBasesNoFeaturesOutOfBoundsPadding covers the direct
// reference-copy path padding with 'N' once the read extends past the
// end of the fetched reference window.
func TestRestoreBasesNoFeaturesOutOfBoundsPadding(t *testing.T) {
	n := &Normalizer{RefBases: []byte("ACGT")}
	r := &Record{AlignmentStart: 3, ReadLength: 5}
	require.NoError(t, n.restoreBases([]*Record{r}))
	assert.Equal(t, []byte("GTNNN"), r.Bases)
}

func TestRestoreMatesAssignsTemplateSizeAndMateFlags(t *testing.T) {
	left := &Record{
		Flags:                 FlagMultiFragment,
		AlignmentStart:        100,
		ReadLength:            50,
		CompressionFlags:      CompFlagHasMateDownstream,
		RecordsToNextFragment: 0,
	}
	right := &Record{
		Flags:          FlagMultiFragment | FlagNegativeStrand,
		AlignmentStart: 200,
		ReadLength:     50,
	}
	records := []*Record{left, right}

	n := &Normalizer{}
	n.assignIndices(records, 0)
	require.NoError(t, n.restoreMates(records, 0))

	next, ok := left.NextIndex()
	require.True(t, ok)
	assert.EqualValues(t, 1, next)
	prev, ok := right.PreviousIndex()
	require.True(t, ok)
	assert.EqualValues(t, 0, prev)
	assert.EqualValues(t, 150, left.TemplateSize) // 250 - 100
	assert.EqualValues(t, -150, right.TemplateSize)
	assert.True(t, left.IsMateNegativeStrand())
	assert.False(t, right.IsMateNegativeStrand())
}

func TestRestoreMatesClearsSingleFragment(t *testing.T) {
	r := &Record{RecordsToNextFragment: 3}
	n := &Normalizer{}
	n.assignIndices([]*Record{r}, 0)
	require.NoError(t, n.restoreMates([]*Record{r}, 0))
	assert.EqualValues(t, -1, r.RecordsToNextFragment)
	_, ok := r.NextIndex()
	assert.False(t, ok)
}

func TestSynthesizeNamesSharedAcrossMates(t *testing.T) {
	left := &Record{}
	right := &Record{}
	left.index, right.index = 1, 2
	left.setNext(1)
	right.setPrevious(0)
	records := []*Record{left, right}

	synthesizeNames(records)
	assert.Equal(t, left.ReadName, right.ReadName)
	assert.Equal(t, []byte("1"), left.ReadName)
}

func TestRestoreQualitiesSentinelWhenNotPreserved(t *testing.T) {
	r := &Record{Bases: []byte("ACGT")}
	n := &Normalizer{}
	n.restoreQualities([]*Record{r})
	assert.Equal(t, []int8{defaultQualityScore, defaultQualityScore, defaultQualityScore, defaultQualityScore}, r.Qualities)
}

func TestRestoreQualitiesForcePreserveFillsSentinels(t *testing.T) {
	r := &Record{
		CompressionFlags: CompFlagQualityScoresPreserved,
		Qualities:        []int8{5, -1, 7, -1},
	}
	n := &Normalizer{}
	n.restoreQualities([]*Record{r})
	assert.Equal(t, []int8{5, defaultQualityScore, 7, defaultQualityScore}, r.Qualities)
}
