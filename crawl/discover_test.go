package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/fuelcheck/core"
)

const portalPage = `<html><body>
<section id="dataset-resources">
  <ul>
    <li><div><ul>
      <li><a href="/dataset/fuel-check/resource/1">Explore</a></li>
      <li><a href="/files/PriceHistory_Jan2024.csv">Download</a></li>
    </ul></div></li>
    <li><div><ul>
      <li><a href="#">Explore</a></li>
      <li><a href="https://cdn.example.gov.au/fuel/FuelCheck_Feb2025.XLSX#top">Download</a></li>
    </ul></div></li>
    <li><div><ul>
      <li><a href="#">Explore</a></li>
      <li><a href="/files/price_history_2023_dec.csv">Download</a></li>
    </ul></div></li>
    <li><div><ul>
      <li><a href="#">Explore</a></li>
      <li><a href="/files/fuel-2024-notes.pdf">Download</a></li>
    </ul></div></li>
    <li><div><ul>
      <li><a href="#">Explore</a></li>
      <li><a href="/files/PriceHistory_Jan2024.csv">Download</a></li>
    </ul></div></li>
  </ul>
</section>
<a href="/files/other_2024.csv">not a resource link</a>
</body></html>`

func TestDiscover(t *testing.T) {
	resources, err := Discover(portalPage, "https://data.example.gov.au/dataset/fuel-check", "", []string{"2024", "2025"})
	require.NoError(t, err)

	assert.Equal(t, []core.Resource{
		{
			URL:    "https://data.example.gov.au/files/PriceHistory_Jan2024.csv",
			Name:   "pricehistory_jan2024.csv",
			Format: core.FormatDelimited,
		},
		{
			URL:    "https://cdn.example.gov.au/fuel/FuelCheck_Feb2025.XLSX",
			Name:   "fuelcheck_feb2025.xlsx",
			Format: core.FormatSpreadsheet,
		},
		{
			URL:  "https://data.example.gov.au/files/fuel-2024-notes.pdf",
			Name: "fuel-2024-notes.pdf",
		},
	}, resources)
}

func TestDiscover_CustomSelector(t *testing.T) {
	resources, err := Discover(portalPage, "https://data.example.gov.au/", "body > a", []string{"2024"})
	require.NoError(t, err)

	require.Len(t, resources, 1)
	assert.Equal(t, "other_2024.csv", resources[0].Name)
}

func TestDiscover_NoYearFilter(t *testing.T) {
	resources, err := Discover(portalPage, "https://data.example.gov.au/", "", nil)
	require.NoError(t, err)

	assert.Len(t, resources, 4)
}

func TestMatchesYear(t *testing.T) {
	assert.True(t, MatchesYear("pricehistory_jan2024.csv", []string{"2024"}))
	assert.False(t, MatchesYear("pricehistory_dec2023.csv", []string{"2024", "2025"}))
	assert.True(t, MatchesYear("anything.csv", nil))
	assert.False(t, MatchesYear("anything.csv", []string{""}))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, core.FormatDelimited, FormatOf("a.CSV"))
	assert.Equal(t, core.FormatSpreadsheet, FormatOf("a.xlsx"))
	assert.Equal(t, core.Format(""), FormatOf("a.pdf"))
	assert.Equal(t, core.Format(""), FormatOf("noext"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "fuel_2024.csv", FileName("https://x.gov.au/a/b/Fuel_2024.csv?dl=1"))
}
