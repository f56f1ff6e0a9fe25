package phrasetable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/decgo/feature"
	"github.com/hupe1980/decgo/model"
)

const tableFixture = `
# translation model
das ||| the ||| -0.1 -0.2
das ||| this ||| -0.3 -0.1
ist ||| is ||| -0.05 0
das ist ||| that is ||| -0.2 -0.2
`

func TestLoad(t *testing.T) {
	table, err := Load(strings.NewReader(tableFixture))
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 2, table.MaxPhraseLen())
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(strings.NewReader("das ||| the"))
	require.Error(t, err)

	_, err = Load(strings.NewReader("das ||| the ||| not-a-number"))
	require.Error(t, err)

	_, err = Load(strings.NewReader(" ||| the ||| -1"))
	require.Error(t, err)
}

func TestTable_Options(t *testing.T) {
	table, err := Load(strings.NewReader(tableFixture))
	require.NoError(t, err)

	weights := feature.Weights{1, 1}
	grid, err := table.Options(model.Sentence{"das", "ist"}, weights)
	require.NoError(t, err)

	das := grid.At(model.NewSpan(0, 1))
	require.Len(t, das, 2)
	assert.InDelta(t, -0.3, das[0].Score, 1e-12)
	assert.Equal(t, "the", das[0].Target.String())

	wide := grid.At(model.NewSpan(0, 2))
	require.Len(t, wide, 1)
	assert.Equal(t, "that is", wide[0].Target.String())
	assert.InDelta(t, -0.4, wide[0].Score, 1e-12)

	assert.Empty(t, grid.At(model.NewSpan(1, 2))[1:], "single option for ist")
}

func TestTable_Coverable(t *testing.T) {
	table, err := Load(strings.NewReader(tableFixture))
	require.NoError(t, err)

	covered := table.Coverable(model.Sentence{"das", "bleibt", "ist"})
	assert.True(t, covered.Contains(0))
	assert.False(t, covered.Contains(1))
	assert.True(t, covered.Contains(2))

	assert.Equal(t, []int{1}, table.Gaps(model.Sentence{"das", "bleibt", "ist"}))
	assert.Empty(t, table.Gaps(model.Sentence{"das", "ist"}))
}
