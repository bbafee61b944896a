package filter

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/hangar/pkg/catalog"
	"github.com/agentstation/hangar/pkg/errors"
)

func xwsOf(items []*catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID.XWS
	}
	return out
}

func TestItemFilter(t *testing.T) {
	store, _ := catalog.TestCatalog(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"kind=ship", []string{"t65xwing", "t70xwing", "tielnfighter"}},
		{"kind=pilot&faction=RebelAlliance", []string{"lukeskywalker", "wedgeantilles"}},
		{"ship=tielnfighter", []string{"academypilot", "blacksquadronace"}},
		{"slot=astromech", []string{"r2d2"}},
		{"name=black%20squadron%20ace", []string{"blacksquadronace", "blacksquadronace-t70xwing"}},
		{"name_contains=torp", []string{"protontorpedoes"}},
		{"restriction=faction:rebelalliance", []string{"chewbacca", "r2d2"}},
		{"min_initiative=4", []string{"lukeskywalker", "wedgeantilles"}},
		{"max_initiative=1", []string{"academypilot"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f, err := ParseItemFilter(httptest.NewRequest("GET", "/items?"+tt.query, nil))
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, xwsOf(f.Apply(store.Items())))
		})
	}
}

func TestParseItemFilterErrors(t *testing.T) {
	for _, query := range []string{"kind=planet", "limit=abc", "offset=-1", "min_initiative=x"} {
		t.Run(query, func(t *testing.T) {
			_, err := ParseItemFilter(httptest.NewRequest("GET", "/items?"+query, nil))
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestBundleFilter(t *testing.T) {
	_, manifest := catalog.TestCatalog(t)

	skus := func(query string) []string {
		t.Helper()
		f, err := ParseBundleFilter(httptest.NewRequest("GET", "/bundles?"+query, nil))
		require.NoError(t, err)
		var out []string
		for _, b := range f.Apply(manifest.Bundles()) {
			out = append(out, b.SKU)
		}
		return out
	}

	assert.Equal(t, []string{"SWZ01"}, skus("wave=0"))
	assert.Equal(t, []string{"SWZ06", "SWZ25"}, skus("name_contains=expansion"))
	assert.Equal(t, []string{"SWZ01", "SWZ06"}, skus("contains=pilot:lukeskywalker"))
	assert.Empty(t, skus("contains=pilot:nobody"))

	_, err := ParseBundleFilter(httptest.NewRequest("GET", "/bundles?contains=lukeskywalker", nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestPaginate(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Paginate(s, Page{Limit: 2}))
	assert.Equal(t, []int{4, 5}, Paginate(s, Page{Limit: 2, Offset: 3}))
	assert.Equal(t, []int{}, Paginate(s, Page{Limit: 2, Offset: 10}))
}

func TestParsePageDefaults(t *testing.T) {
	f, err := ParseItemFilter(httptest.NewRequest("GET", "/items", nil))
	require.NoError(t, err)
	assert.Equal(t, Page{Limit: DefaultLimit}, f.Page)

	f, err = ParseItemFilter(httptest.NewRequest("GET", "/items?limit=5000", nil))
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, f.Limit)
}
