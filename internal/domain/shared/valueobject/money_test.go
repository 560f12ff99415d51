package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(1000, KRW)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), m.Amount())
		assert.Equal(t, KRW, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(1000, "")
		assert.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same-currency amounts", func(t *testing.T) {
		sum, err := NewMoneyKRW(2000).Add(NewMoneyKRW(1500))
		require.NoError(t, err)
		assert.Equal(t, int64(3500), sum.Amount())
	})

	t.Run("rejects mismatched currencies", func(t *testing.T) {
		usd, err := NewMoney(100, USD)
		require.NoError(t, err)
		_, err = NewMoneyKRW(100).Add(usd)
		assert.Error(t, err)
	})
}

func TestMoney_MultiplyByInt(t *testing.T) {
	m := NewMoneyKRW(1000).MultiplyByInt(2)
	assert.Equal(t, int64(2000), m.Amount())

	// price=1000 qty=2 plus price=500 qty=3 must come to exactly 3500
	total := NewMoneyKRW(1000).MultiplyByInt(2).MustAdd(NewMoneyKRW(500).MultiplyByInt(3))
	assert.Equal(t, int64(3500), total.Amount())
}

func TestMoney_Decimal(t *testing.T) {
	t.Run("KRW has no minor digits", func(t *testing.T) {
		assert.Equal(t, "3500", NewMoneyKRW(3500).Decimal().String())
	})

	t.Run("USD renders cents", func(t *testing.T) {
		m, err := NewMoney(1999, USD)
		require.NoError(t, err)
		assert.Equal(t, "19.99", m.Decimal().String())
	})
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(NewMoneyKRW(2500))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":2500,"currency":"KRW"}`, string(data))

	var m Money
	require.NoError(t, json.Unmarshal(data, &m))
	assert.True(t, m.Equals(NewMoneyKRW(2500)))
}
