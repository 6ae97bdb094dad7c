package nav

import (
	"testing"

	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_DocumentOrderAndLevels(t *testing.T) {
	doc, err := dom.ParseString(samplePage)
	require.NoError(t, err)

	sections := Scan(doc, DefaultConfig())
	require.Len(t, sections, 3)

	want := []struct {
		id    string
		label string
		rank  string
		level Level
	}{
		{"section_0", "Intro", "h2", LevelTop},
		{"section_1", "Details", "h3", LevelSub},
		{"section_2", "Usage", "h2", LevelTop},
	}
	for i, w := range want {
		s := sections[i]
		assert.Equal(t, i, s.Index)
		assert.Equal(t, w.id, s.ID)
		assert.Equal(t, w.label, s.Label)
		assert.Equal(t, w.rank, s.Rank)
		assert.Equal(t, w.level, s.Level)
		assert.Equal(t, w.rank, s.Heading.Data)
	}
}

func TestScan_NoMainRegion(t *testing.T) {
	doc, err := dom.ParseString(`<body><h2>Loose</h2><h3>Also loose</h3></body>`)
	require.NoError(t, err)
	assert.Empty(t, Scan(doc, DefaultConfig()))
}

func TestScan_NoHeadings(t *testing.T) {
	doc, err := dom.ParseString(`<main><p>Nothing to see.</p></main>`)
	require.NoError(t, err)
	assert.Empty(t, Scan(doc, DefaultConfig()))
}

func TestScan_IgnoresHeadingsOutsideMainAndInsideNav(t *testing.T) {
	doc, err := dom.ParseString(`<body>
<h2>Header heading</h2>
<main>
  <div class="usa-in-page-nav"><nav><h2 class="usa-in-page-nav__heading">On this page</h2></nav></div>
  <h2>Real</h2>
</main>
<footer><h3>Footer</h3></footer>
</body>`)
	require.NoError(t, err)

	sections := Scan(doc, DefaultConfig())
	require.Len(t, sections, 1)
	assert.Equal(t, "Real", sections[0].Label)
	assert.Equal(t, "section_0", sections[0].ID)
}

func TestScan_CustomRanksAndMain(t *testing.T) {
	doc, err := dom.ParseString(`<article><h3>A</h3><h4>B</h4><h2>skipped</h2></article>`)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.MainSelector = "article"
	cfg.TopRank = "h3"
	cfg.SubRank = "h4"

	sections := Scan(doc, cfg)
	require.Len(t, sections, 2)
	assert.Equal(t, LevelTop, sections[0].Level)
	assert.Equal(t, LevelSub, sections[1].Level)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "top", LevelTop.String())
	assert.Equal(t, "sub", LevelSub.String())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{}.Validate(), "empty config takes defaults")

	bad := DefaultConfig()
	bad.HeadingLevel = "div"
	assert.ErrorIs(t, bad.Validate(), ErrHeadingLevel)

	bad = DefaultConfig()
	bad.SubRank = "h2"
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Scope = "galaxy"
	assert.Error(t, bad.Validate())
}
