package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentshop/pentshop/app/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusDelivered, false},
		{models.StatusProcessing, models.StatusDelivered, true},
		{models.StatusProcessing, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusPending, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusCancelled, models.StatusProcessing, false},
		// same status is a permitted no-op
		{models.StatusPending, models.StatusPending, true},
		{models.StatusDelivered, models.StatusDelivered, true},
	}

	for _, c := range cases {
		assert.Equalf(t, c.want, models.CanTransition(c.from, c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		models.StatusPending, models.StatusProcessing,
		models.StatusDelivered, models.StatusCancelled,
	} {
		assert.True(t, models.ValidStatus(s), s)
	}
	assert.False(t, models.ValidStatus("Shipped"))
	assert.False(t, models.ValidStatus("pending")) // case-sensitive
	assert.False(t, models.ValidStatus(""))
}

func TestOrderNormalize(t *testing.T) {
	o := models.Order{
		UserEmail: "  Grace@Church.ORG ",
		Reference: " ps_ref_1 ",
		Products:  []models.OrderItem{{Name: "Hymnal", Price: 40}},
	}
	o.Normalize()

	assert.Equal(t, "grace@church.org", o.UserEmail)
	assert.Equal(t, "ps_ref_1", o.Reference)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, 1, o.Products[0].Quantity)
}

func TestOrderValidate(t *testing.T) {
	valid := models.Order{
		UserEmail: "grace@church.org",
		Reference: "ps_ref_1",
		Amount:    40,
		Status:    models.StatusPending,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.UserEmail = "not-an-email"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Reference = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Amount = 0 // a decoded payload without an amount looks like this
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Amount = -1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Status = "Shipped"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Products = []models.OrderItem{{Name: "Hymnal", Price: -5, Quantity: 1}}
	assert.Error(t, bad.Validate())
}

func TestValidateTotal(t *testing.T) {
	o := models.Order{
		Amount: 110,
		Products: []models.OrderItem{
			{Name: "Hymnal", Price: 40, Quantity: 2},
			{Name: "Anointing Oil", Price: 30, Quantity: 1},
		},
	}
	assert.True(t, o.ValidateTotal())

	o.Amount = 110.005
	assert.True(t, o.ValidateTotal(), "tolerance absorbs float noise")

	o.Amount = 100
	assert.False(t, o.ValidateTotal())

	// orders without line items skip the check
	empty := models.Order{Amount: 55}
	assert.True(t, empty.ValidateTotal())
}

func TestValidEmail(t *testing.T) {
	assert.True(t, models.ValidEmail("grace@church.org"))
	assert.True(t, models.ValidEmail(" Grace@Church.ORG "))
	assert.False(t, models.ValidEmail("grace@church"))
	assert.False(t, models.ValidEmail("grace church@x.org"))
	assert.False(t, models.ValidEmail(""))
}
