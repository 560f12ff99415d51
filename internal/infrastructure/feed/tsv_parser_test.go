package feed

import (
	"strings"
	"testing"

	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedHeader = "code\tfee_class\tactive\taddress\n"

func TestParseReferenceFeed(t *testing.T) {
	t.Run("parses valid rows and skips blank lines", func(t *testing.T) {
		input := feedHeader +
			"63000\tJEJU\tY\tJeju-si Ildo 1-dong\n" +
			"\n" +
			"40200\tREMOTE_ISLAND\ttrue\tUlleung-gun Ulleung-eup\n" +
			"04524\tSTANDARD\t1\tSeoul Jung-gu Sejong-daero\n"

		records, err := ParseReferenceFeed(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, "63000", records[0].Code)
		assert.Equal(t, geo.FeeClassJeju, records[0].FeeClass)
		assert.True(t, records[0].Active)
		assert.Equal(t, "Jeju-si Ildo 1-dong", records[0].Address)
		assert.Equal(t, geo.FeeClassRemoteIsland, records[1].FeeClass)
		assert.Equal(t, geo.FeeClassStandard, records[2].FeeClass)
	})

	t.Run("accepts inactive flags", func(t *testing.T) {
		input := feedHeader + "63000\tJEJU\tN\tJeju-si\n"
		records, err := ParseReferenceFeed(strings.NewReader(input))
		require.NoError(t, err)
		assert.False(t, records[0].Active)
	})

	t.Run("rejects wrong field count with raw line", func(t *testing.T) {
		raw := "63000\tJEJU\tY"
		_, err := ParseReferenceFeed(strings.NewReader(feedHeader + raw + "\n"))
		require.Error(t, err)

		var rowErr *MalformedRowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 2, rowErr.Line)
		assert.Equal(t, raw, rowErr.Raw)
		assert.Equal(t, ErrCodeFeedFieldCount, rowErr.Code)
	})

	t.Run("rejects missing required field", func(t *testing.T) {
		_, err := ParseReferenceFeed(strings.NewReader(feedHeader + "\tJEJU\tY\tJeju-si\n"))
		var rowErr *MalformedRowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, ErrCodeFeedMissingField, rowErr.Code)
	})

	t.Run("rejects unknown fee class", func(t *testing.T) {
		_, err := ParseReferenceFeed(strings.NewReader(feedHeader + "63000\tMOUNTAIN\tY\tJeju-si\n"))
		var rowErr *MalformedRowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, ErrCodeFeedBadEnum, rowErr.Code)
	})

	t.Run("rejects unparsable active flag", func(t *testing.T) {
		_, err := ParseReferenceFeed(strings.NewReader(feedHeader + "63000\tJEJU\tmaybe\tJeju-si\n"))
		var rowErr *MalformedRowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, ErrCodeFeedBadBool, rowErr.Code)
	})

	t.Run("rejects a repeated (code, address) pair", func(t *testing.T) {
		input := feedHeader +
			"63000\tJEJU\tY\tJeju-si\n" +
			"63000\tJEJU\tY\tJeju-si\n"
		records, err := ParseReferenceFeed(strings.NewReader(input))
		assert.Nil(t, records)

		var rowErr *MalformedRowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, ErrCodeFeedDuplicateRow, rowErr.Code)
		assert.Equal(t, 3, rowErr.Line)
	})

	t.Run("one code across distinct addresses is legal", func(t *testing.T) {
		input := feedHeader +
			"63000\tJEJU\tY\tJeju-si Ildo 1-dong\n" +
			"63000\tJEJU\tY\tJeju-si Ido 2-dong\n"
		records, err := ParseReferenceFeed(strings.NewReader(input))
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("one bad row fails the whole feed", func(t *testing.T) {
		input := feedHeader +
			"63000\tJEJU\tY\tJeju-si\n" +
			"broken line\n" +
			"04524\tSTANDARD\tY\tSeoul\n"
		records, err := ParseReferenceFeed(strings.NewReader(input))
		assert.Nil(t, records)
		assert.True(t, IsMalformedRow(err))
	})

	t.Run("empty input is missing header", func(t *testing.T) {
		_, err := ParseReferenceFeed(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("header only is an empty feed", func(t *testing.T) {
		_, err := ParseReferenceFeed(strings.NewReader(feedHeader))
		assert.ErrorIs(t, err, ErrEmptyFeed)
	})
}
