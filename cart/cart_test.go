package cart_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albt6x/rent-a-camera/cart"
)

func line(itemID string, hours int, perDay int64) cart.Line {
	return cart.Line{
		ItemID:        itemID,
		Name:          "item-" + itemID,
		DurationHours: hours,
		PricePerDay:   decimal.NewFromInt(perDay),
	}
}

func TestLinePrice_HalfDayRule(t *testing.T) {
	full := line("a", 24, 100000)
	half := line("a", 12, 100000)

	assert.True(t, full.Price().Equal(decimal.NewFromInt(100000)))
	assert.True(t, half.Price().Equal(decimal.NewFromInt(60000)), "12h costs 0.6x the daily rate")
}

func TestCart_AddDuplicateRefused(t *testing.T) {
	var c cart.Cart
	require.NoError(t, c.Add(line("a", 24, 100000)))

	err := c.Add(line("a", 24, 100000))
	assert.ErrorIs(t, err, cart.ErrDuplicateLine)

	// same item with a different duration is a different line
	assert.NoError(t, c.Add(line("a", 12, 100000)))
	assert.Len(t, c.Lines, 2)
}

func TestCart_SubtotalAndRemove(t *testing.T) {
	var c cart.Cart
	require.NoError(t, c.Add(line("a", 24, 100000)))
	require.NoError(t, c.Add(line("b", 12, 50000)))

	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(130000)))

	assert.True(t, c.Remove("b_12"))
	assert.False(t, c.Remove("b_12"))
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(100000)))
}

func TestStore_RoundTrip(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := cart.NewStore(rdb, 2*time.Hour)
	ctx := context.Background()

	var c cart.Cart
	require.NoError(t, c.Add(line("a", 24, 100000)))

	b, err := json.Marshal(&c)
	require.NoError(t, err)

	mock.ExpectSet("rk:cart:u1", b, 2*time.Hour).SetVal("OK")
	require.NoError(t, store.Save(ctx, "u1", &c))

	mock.ExpectGet("rk:cart:u1").SetVal(string(b))
	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, "a", got.Lines[0].ItemID)

	mock.ExpectDel("rk:cart:u1").SetVal(1)
	require.NoError(t, store.Clear(ctx, "u1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_MissingCartIsEmpty(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := cart.NewStore(rdb, time.Hour)

	mock.ExpectGet("rk:cart:u2").RedisNil()
	got, err := store.Get(context.Background(), "u2")
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
