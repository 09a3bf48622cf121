package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrders_GroupsRepeatedLineItemRows(t *testing.T) {
	ex := readCSV(t, `
Name,Email,Financial Status,Paid at,Currency,Subtotal,Shipping,Taxes,Total,Lineitem quantity,Lineitem name,Lineitem price,Lineitem sku
#1001,jane@example.com,paid,2024-03-05 11:22:33 -0500,USD,24.98,5.00,1.50,31.48,2,Ceramic Mug,9.99,M1
#1001,,,,,,,,,1,Dinner Plate,5.00,P1
#1002,,pending,,USD,8.00,0.00,0.00,8.00,1,Towel,8.00,T1
`)

	orders, summary := BuildOrders(ex)
	require.Len(t, orders, 2)
	assert.Equal(t, 2, summary.Entities)
	assert.Equal(t, 3, summary.Rows)

	first := orders[0]
	assert.Equal(t, "#1001", first.Name)
	assert.Equal(t, "jane@example.com", first.Email)
	assert.Equal(t, int64(2498), first.Subtotal)
	assert.Equal(t, int64(3148), first.Total)
	require.NotNil(t, first.ProcessedAt)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "Ceramic Mug", first.Items[0].Title)
	assert.Equal(t, 2, first.Items[0].Quantity)
	assert.Equal(t, int64(999), first.Items[0].Price)
	assert.Equal(t, "Dinner Plate", first.Items[1].Title)

	// Guest order without an email still aggregates.
	second := orders[1]
	assert.Equal(t, "#1002", second.Name)
	assert.Empty(t, second.Email)
	require.Len(t, second.Items, 1)
}

func TestBuildCustomers_EmailIsTheMatchKey(t *testing.T) {
	ex := readCSV(t, `
First Name,Last Name,Email,Accepts Email Marketing,Tags,Country
Jane,Doe,JANE@example.com,yes,"vip, wholesale",US
,,,yes,,
John,Roe,jane@example.com,no,,US
`)

	customers, summary := BuildCustomers(ex)
	require.Len(t, customers, 1)
	assert.Equal(t, 2, summary.SkippedRows)

	customer := customers[0]
	assert.Equal(t, "jane@example.com", customer.Email)
	assert.Equal(t, "Jane", customer.FirstName)
	assert.True(t, customer.AcceptsMarketing)
	assert.Equal(t, []string{"vip", "wholesale"}, customer.Tags)
}
